package settlement

import (
	"bytes"
	"errors"
	"io"

	"github.com/richardlehane/mscfb"
	"github.com/xuri/excelize/v2"
)

var errWrongPassword = errors.New("비밀번호가 올바르지 않거나 파일이 손상되었습니다")

var zipSignature = []byte("PK\x03\x04")

// decrypt 는 ECMA-376 으로 암호화된 패키지를 풀어 xlsx(zip) 바이트를 돌려준다.
// 암호화되지 않은 xlsx 는 그대로 통과시킨다.
func decrypt(raw []byte, password string) ([]byte, error) {
	encrypted, err := isEncryptedPackage(raw)
	if err != nil {
		return nil, err
	}
	if !encrypted {
		return raw, nil
	}

	plain, err := excelize.Decrypt(raw, &excelize.Options{Password: password})
	if err != nil {
		return nil, err
	}

	// 비밀번호가 틀리면 복호화 자체는 성공하고 쓰레기 바이트가 나오는 경우가 있다
	if !bytes.HasPrefix(plain, zipSignature) {
		return nil, errWrongPassword
	}

	return plain, nil
}

// isEncryptedPackage 는 OLE 복합 문서 안에 EncryptedPackage 스트림이 있는지 확인한다.
// zip 으로 시작하면 평문 xlsx 로 본다.
func isEncryptedPackage(raw []byte) (bool, error) {
	if bytes.HasPrefix(raw, zipSignature) {
		return false, nil
	}

	doc, err := mscfb.New(bytes.NewReader(raw))
	if err != nil {
		return false, err
	}

	for {
		entry, err := doc.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return false, err
		}
		if entry.Name == "EncryptedPackage" {
			return true, nil
		}
	}

	return false, errors.New("암호화된 엑셀 패키지가 아닙니다")
}
