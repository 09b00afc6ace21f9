// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// TypeParser maps explicitly assigned type ids to decoders. IDs are assigned
// by the caller (instead of by registration order) so that reordering
// registrations can never remap an encoded type.
type TypeParser[T any] struct {
	typeToIndex    map[uint8]struct{}
	indexToDecoder map[uint8]func(*Packer) (T, error)
}

func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{
		typeToIndex:    map[uint8]struct{}{},
		indexToDecoder: map[uint8]func(*Packer) (T, error){},
	}
}

// Register adds a decoder for [id]. Registering the same id twice returns
// ErrDuplicateItem.
func (p *TypeParser[T]) Register(id uint8, f func(*Packer) (T, error)) error {
	if _, ok := p.typeToIndex[id]; ok {
		return ErrDuplicateItem
	}
	p.typeToIndex[id] = struct{}{}
	p.indexToDecoder[id] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(id uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.indexToDecoder[id]
	return f, ok
}

// Unmarshal reads a type id from [p] and decodes the value that follows it.
func (p *TypeParser[T]) Unmarshal(pk *Packer) (T, error) {
	var empty T
	id := pk.UnpackByte()
	if err := pk.Err(); err != nil {
		return empty, err
	}
	f, ok := p.indexToDecoder[id]
	if !ok {
		return empty, ErrUnknownType
	}
	return f(pk)
}
