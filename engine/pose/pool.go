package pose

// Pool hands out scratch poses for one evaluation and reclaims all of them at once.
// Buffers are kept between evaluations, so steady-state ticks do not allocate.
// A Pool is not safe for concurrent use; each player owns one.
type Pool struct {
	jointCount int
	free       []*Pose
	inUse      []*Pose
}

// NewPool creates an empty pool producing poses for jointCount joints.
//
// Parameters:
//   - jointCount: the joint count of every pose handed out
//
// Returns:
//   - *Pool: the new pool
func NewPool(jointCount int) *Pool {
	return &Pool{jointCount: jointCount}
}

// Get returns a scratch pose. Its contents are unspecified until written.
//
// Returns:
//   - *Pose: a pose owned by the pool until ReleaseAll
func (pl *Pool) Get() *Pose {
	var p *Pose
	if n := len(pl.free); n > 0 {
		p = pl.free[n-1]
		pl.free = pl.free[:n-1]
	} else {
		p = NewPose(pl.jointCount)
	}
	pl.inUse = append(pl.inUse, p)
	return p
}

// ReleaseAll returns every pose handed out since the last call to the free list.
func (pl *Pool) ReleaseAll() {
	pl.free = append(pl.free, pl.inUse...)
	clear(pl.inUse)
	pl.inUse = pl.inUse[:0]
}

// InUse returns how many poses are currently handed out.
//
// Returns:
//   - int: the number of live scratch poses
func (pl *Pool) InUse() int {
	return len(pl.inUse)
}

// Allocated returns how many poses the pool owns in total.
//
// Returns:
//   - int: free plus in-use poses
func (pl *Pool) Allocated() int {
	return len(pl.inUse) + len(pl.free)
}
