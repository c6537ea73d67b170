package data

// Batch is an ordered sequence of points evaluated together.
type Batch struct {
	points []Point
}

// NewBatch creates a batch over the given points. The slice is not copied.
func NewBatch(points ...Point) *Batch {
	return &Batch{points: points}
}

// Len returns the number of points in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.points)
}

// At returns the i-th point.
func (b *Batch) At(i int) *Point {
	return &b.points[i]
}

// Points returns the underlying points. Callers must not modify them.
func (b *Batch) Points() []Point {
	return b.points
}

// Slice returns the sub-batch [lo, hi), sharing storage with b.
func (b *Batch) Slice(lo, hi int) *Batch {
	return &Batch{points: b.points[lo:hi]}
}

// Subset returns a new batch holding the points at the given indices, in that order.
func (b *Batch) Subset(idx []int) *Batch {
	pts := make([]Point, len(idx))
	for i, j := range idx {
		pts[i] = b.points[j]
	}
	return &Batch{points: pts}
}

// Append returns a batch holding the points of b followed by the points of other.
func (b *Batch) Append(other *Batch) *Batch {
	pts := make([]Point, 0, b.Len()+other.Len())
	pts = append(pts, b.points...)
	pts = append(pts, other.points...)
	return &Batch{points: pts}
}
