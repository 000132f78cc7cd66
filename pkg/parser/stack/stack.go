package stack

type Stack[T any] struct {
	a []T
}

// NewStack creates a stack holding elm, the last element on top
func NewStack[T any](elm ...T) *Stack[T] {
	s := &Stack[T]{a: make([]T, 0, len(elm))}
	s.a = append(s.a, elm...)
	return s
}

// Push adds an element to the top of the stack
func (s *Stack[T]) Push(elm T) {
	s.a = append(s.a, elm)
}

// Pop removes and returns the top element of the stack, or the zero value
// when the stack is empty
func (s *Stack[T]) Pop() T {
	var zero T
	if len(s.a) == 0 {
		return zero
	}

	elm := s.a[len(s.a)-1]
	s.a[len(s.a)-1] = zero
	s.a = s.a[:len(s.a)-1]

	return elm
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() T {
	if len(s.a) == 0 {
		var zero T
		return zero
	}

	return s.a[len(s.a)-1]
}

// Size returns the number of elements on the stack
func (s *Stack[T]) Size() int {
	return len(s.a)
}

// Array returns the elements bottom first
func (s *Stack[T]) Array() []T {
	return s.a
}
