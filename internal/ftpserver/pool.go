package ftpserver

// workerPool bounds the number of sessions served concurrently to a fixed
// size (spec §4.G). It is a plain counting semaphore: idiomatic Go needs no
// third-party worker-pool library for this, and none of the retrieval pack
// reaches for one either.
type workerPool struct {
	tickets chan struct{}
}

func newWorkerPool(size int) *workerPool {
	return &workerPool{tickets: make(chan struct{}, size)}
}

// acquire blocks until a worker slot is free.
func (p *workerPool) acquire() {
	p.tickets <- struct{}{}
}

// release frees a worker slot.
func (p *workerPool) release() {
	<-p.tickets
}
