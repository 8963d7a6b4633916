package intvar

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// Domain bounds: the discrete domain holds a subset of [MinValue, MaxValue].
const (
	MinValue = 0
	MaxValue = 255
)

// A Domain is a finite set of admissible integer values for a logical
// integer variable. The zero value is the empty domain.
type Domain struct {
	bits [4]uint64
}

// UniversalDomain returns the domain of every admissible value.
func UniversalDomain() Domain {
	var d Domain
	for i := range d.bits {
		d.bits[i] = ^uint64(0)
	}
	return d
}

// NewDomain returns the domain holding exactly the given values.
// Out-of-bound values fail at insertion time.
func NewDomain(values ...int) (Domain, error) {
	var d Domain
	for _, v := range values {
		if err := d.Insert(v); err != nil {
			return Domain{}, err
		}
	}
	return d, nil
}

// Insert adds a value to the domain.
func (d *Domain) Insert(v int) error {
	if v < MinValue || v > MaxValue {
		return errors.Errorf("value %d out of the domain bounds [%d, %d]", v, MinValue, MaxValue)
	}
	d.bits[v/64] |= 1 << (uint(v) % 64)
	return nil
}

// Erase removes a value from the domain, if present.
func (d *Domain) Erase(v int) {
	if v < MinValue || v > MaxValue {
		return
	}
	d.bits[v/64] &^= 1 << (uint(v) % 64)
}

// Contains reports whether v is in the domain.
func (d Domain) Contains(v int) bool {
	if v < MinValue || v > MaxValue {
		return false
	}
	return d.bits[v/64]&(1<<(uint(v)%64)) != 0
}

// Size returns the number of values in the domain.
func (d Domain) Size() int {
	size := 0
	for _, word := range d.bits {
		size += bits.OnesCount64(word)
	}
	return size
}

// IsEmpty reports whether the domain holds no value.
func (d Domain) IsEmpty() bool { return d.Size() == 0 }

// IsSingleton reports whether the domain holds exactly one value.
func (d Domain) IsSingleton() bool { return d.Size() == 1 }

// IsUniversal reports whether the domain holds every admissible value.
func (d Domain) IsUniversal() bool { return d.Size() == MaxValue-MinValue+1 }

// Min returns the smallest value. The domain must not be empty.
func (d Domain) Min() int {
	for i, word := range d.bits {
		if word != 0 {
			return i*64 + bits.TrailingZeros64(word)
		}
	}
	panic("Bug: Min of an empty domain")
}

// Max returns the biggest value. The domain must not be empty.
func (d Domain) Max() int {
	for i := len(d.bits) - 1; i >= 0; i-- {
		if word := d.bits[i]; word != 0 {
			return i*64 + 63 - bits.LeadingZeros64(word)
		}
	}
	panic("Bug: Max of an empty domain")
}

// Values returns the contained values in increasing order.
func (d Domain) Values() []int {
	values := make([]int, 0, d.Size())
	for v := MinValue; v <= MaxValue; v++ {
		if d.Contains(v) {
			values = append(values, v)
		}
	}
	return values
}

func (d Domain) String() string {
	if d.IsUniversal() {
		return "{*}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range d.Values() {
		if i != 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	sb.WriteByte('}')
	return sb.String()
}
