package settlement

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput 는 호출자가 고칠 수 있는 입력 오류다. 처리는 시작되지 않는다.
	ErrInvalidInput = errors.New("invalid input")
	// ErrParseFailure 는 복호화 또는 워크북 로드 실패다. 부분 결과는 없다.
	ErrParseFailure = errors.New("parse failure")
)

const (
	MsgMissingFile     = "파일이 전달되지 않았습니다"
	MsgMissingPassword = "비밀번호가 필요합니다."
	MsgDecryptFailed   = "파일 복호화에 실패했습니다"
	MsgLoadFailed      = "엑셀 파일을 읽을 수 없습니다"
)

// ParseError 는 Parse 가 돌려주는 유일한 오류 타입이다.
// errors.Is(err, ErrInvalidInput) 또는 errors.Is(err, ErrParseFailure) 로 분류한다.
type ParseError struct {
	Kind    error
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func invalidInput(msg string) *ParseError {
	return &ParseError{Kind: ErrInvalidInput, Message: msg}
}

func parseFailure(msg string, err error) *ParseError {
	return &ParseError{Kind: ErrParseFailure, Message: msg, Err: err}
}
