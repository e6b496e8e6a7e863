package scene

import (
	"errors"
	"fmt"
)

// Layout errors.
var (
	ErrUnsupportedComponentType = errors.New("unsupported component type")
	ErrUnsupportedShape         = errors.New("unsupported accessor shape")
)

// ByteWidth returns the size of one component in bytes.
func (c ComponentType) ByteWidth() (int, error) {
	switch c {
	case ComponentByte, ComponentUbyte:
		return 1, nil
	case ComponentShort, ComponentUshort:
		return 2, nil
	case ComponentInt, ComponentUint, ComponentFloat:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedComponentType, uint16(c))
	}
}

// ComponentCount returns the number of components in one element.
func (s Shape) ComponentCount() (int, error) {
	switch s {
	case ShapeScalar:
		return 1, nil
	case ShapeVec2:
		return 2, nil
	case ShapeVec3:
		return 3, nil
	case ShapeVec4, ShapeMat2:
		return 4, nil
	case ShapeMat3:
		return 9, nil
	case ShapeMat4:
		return 16, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedShape, string(s))
	}
}

// ElementSize returns the tightly packed byte size of one element.
func ElementSize(c ComponentType, s Shape) (int, error) {
	width, err := c.ByteWidth()
	if err != nil {
		return 0, err
	}
	count, err := s.ComponentCount()
	if err != nil {
		return 0, err
	}
	return width * count, nil
}
