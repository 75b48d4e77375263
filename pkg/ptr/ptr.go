package ptr

// Ptr возвращает указатель на копию значения
func Ptr[T any](v T) *T {
	return &v
}

// Deref возвращает значение по указателю или значение по умолчанию
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
