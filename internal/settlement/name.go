package settlement

import (
	"regexp"
	"strings"
)

// 표시 이름 끝의 숫자 4자리는 전화번호 뒷자리다. 이름 자체가 숫자 4자리로 끝나면 잘못 나뉜다.
var riderSuffixPattern = regexp.MustCompile(`^(.*?)(\d{4})$`)

func splitRiderName(raw string) (name, suffix string) {
	raw = strings.TrimSpace(raw)
	m := riderSuffixPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw, ""
	}
	return strings.TrimSpace(m[1]), m[2]
}
