package domain

import (
	"bytes"
	"encoding/json"
)

// Optional хранит значение, которое вызывающая сторона могла не передать вовсе.
// Пустое значение и "не передано" — разные состояния: Some([]T{}) означает
// "заменить на пустой набор", None — "не трогать".
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get возвращает значение и признак того, что оно было передано.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// UnmarshalJSON вызывается только если ключ присутствует в документе.
// Явный null трактуется как "не передано".
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
