// bound.go
//
// An apartment availability sync and alerting service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of aptwatch.
// aptwatch is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// aptwatch is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with aptwatch.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package types

import (
	"cmp"
	"time"
)

// Bound is an optional inclusive [Min, Max] range. A nil end is unbounded
// on that side; the zero value imposes no constraint at all.
type Bound[T cmp.Ordered] struct {
	Min *T
	Max *T
}

// NewBound builds a Bound from two optional ends.
func NewBound[T cmp.Ordered](min, max *T) Bound[T] {
	return Bound[T]{Min: min, Max: max}
}

// IsZero reports whether the bound imposes no constraint.
func (b Bound[T]) IsZero() bool {
	return b.Min == nil && b.Max == nil
}

// Contains reports whether v falls inside the bound.
func (b Bound[T]) Contains(v T) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

// DateRange is an optional inclusive calendar-date window.
type DateRange struct {
	From  *time.Time
	Until *time.Time
}

// IsZero reports whether the range imposes no constraint.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.Until == nil
}
