package models

import (
	"errors"
	"fmt"
)

// Kind вид ошибки. Набор закрыт: вызывающий код ветвится по виду, а не по тексту.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindConfig
	KindUnavailable
	KindUnreachable
	KindDecode
	KindShape
	KindMissingKey
	KindUnknownStatus
	KindSend
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindConfig:        "config",
	KindUnavailable:   "endpoint_unavailable",
	KindUnreachable:   "endpoint_unreachable",
	KindDecode:        "decode",
	KindShape:         "shape",
	KindMissingKey:    "missing_key",
	KindUnknownStatus: "unknown_status",
	KindSend:          "send",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error ошибка с видом
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// NewError создает ошибку заданного вида
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Errorf создает ошибку заданного вида без причины
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибки по виду: errors.Is(err, &Error{Kind: KindSend})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// KindOf возвращает вид ошибки или KindUnknown, если err не содержит *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
