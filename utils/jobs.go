package utils

// JobPool bounds the number of concurrent jobs. Acquire blocks until a
// slot is free, Release returns it.
type JobPool struct {
	jobs chan struct{}
}

func (p *JobPool) Acquire() {
	<-p.jobs
}

func (p *JobPool) Release() {
	p.jobs <- struct{}{}
}

func NewJobPool(size int) (p *JobPool) {
	p = &JobPool{jobs: make(chan struct{}, size)}
	for range size {
		p.jobs <- struct{}{}
	}
	return p
}
