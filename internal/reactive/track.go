package reactive

import "sort"

// subscriber is anything that can depend on a dep: effects and computeds.
type subscriber interface {
	subID() uint64
	addDep(d *dep)
	notify()
}

var (
	activeSub  subscriber
	batchDepth int
	flushing   bool
	pending    []*effect
	nextID     uint64
)

func newID() uint64 {
	nextID++
	return nextID
}

// dep is the set of subscribers of one observable value.
type dep struct {
	subs map[subscriber]struct{}
}

func (d *dep) track() {
	if activeSub == nil {
		return
	}
	if d.subs == nil {
		d.subs = make(map[subscriber]struct{})
	}
	if _, ok := d.subs[activeSub]; ok {
		return
	}
	d.subs[activeSub] = struct{}{}
	activeSub.addDep(d)
}

func (d *dep) trigger() {
	if len(d.subs) == 0 {
		return
	}

	subs := make([]subscriber, 0, len(d.subs))
	for s := range d.subs {
		subs = append(subs, s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].subID() < subs[j].subID() })

	startBatch()
	defer endBatch()
	for _, s := range subs {
		s.notify()
	}
}

func (d *dep) remove(s subscriber) {
	delete(d.subs, s)
}

// depSet is embedded by subscribers to remember what they read.
type depSet map[*dep]struct{}

func (ds *depSet) add(d *dep) {
	if *ds == nil {
		*ds = make(depSet)
	}
	(*ds)[d] = struct{}{}
}

func (ds *depSet) clear(s subscriber) {
	for d := range *ds {
		d.remove(s)
	}
	*ds = nil
}

func startBatch() {
	batchDepth++
}

func endBatch() {
	batchDepth--
	if batchDepth > 0 {
		return
	}
	flush()
}

// flush runs queued effects in creation order until the queue is empty.
func flush() {
	if flushing {
		return
	}
	flushing = true
	defer func() { flushing = false }()

	for len(pending) > 0 {
		next := 0
		for i, e := range pending {
			if e.id < pending[next].id {
				next = i
			}
		}
		e := pending[next]
		pending = append(pending[:next], pending[next+1:]...)
		e.queued = false
		e.run()
	}
}

// Batch runs fn with effect flushing deferred until fn returns. Batches nest;
// only the outermost one flushes.
func Batch(fn func()) {
	startBatch()
	defer endBatch()
	fn()
}

// Untracked runs fn without recording dependencies for the running effect.
func Untracked[T any](fn func() T) T {
	prev := activeSub
	activeSub = nil
	defer func() { activeSub = prev }()
	return fn()
}

func untracked(fn func()) {
	prev := activeSub
	activeSub = nil
	defer func() { activeSub = prev }()
	fn()
}
