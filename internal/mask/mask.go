// Package mask redacts secrets and PII for log output.
package mask

import "strings"

// PingKey masks a ping key, keeping a short recognizable prefix.
func PingKey(key string) string {
	if len(key) < 4 {
		return "************"
	}
	return key[:4] + "************"
}

// Email masks the local part of an email address.
func Email(addr string) string {
	at := strings.IndexByte(addr, '@')
	if at <= 0 {
		return "***"
	}
	return addr[:1] + "***@" + addr[at+1:]
}
