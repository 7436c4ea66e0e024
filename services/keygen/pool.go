package keygen

import (
	"context"
)

// Pool bounds concurrent key generation. RSA generation is CPU-bound;
// without a cap a burst of create requests would starve every other
// request handler.
type Pool struct {
	register chan job
	stop     chan struct{}
}

type job struct {
	run  func() result
	resp chan result
}

type result struct {
	privateKey string
	publicKey  string
	key        []byte
	iv         []byte
	err        error
}

func CreatePool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		register: make(chan job),
		stop:     make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for {
		select {
		case j := <-p.register:
			j.resp <- j.run()
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) Stop() {
	close(p.stop)
}

func (p *Pool) submit(ctx context.Context, run func() result) (result, error) {
	j := job{run: run, resp: make(chan result, 1)}

	select {
	case p.register <- j:
	case <-ctx.Done():
		return result{}, ctx.Err()
	}

	// the job is already running; wait for it
	return <-j.resp, nil
}

// GenerateRSA queues an RSA generation job and waits for a worker.
// A context canceled before a worker picks the job up aborts without
// generating.
func (p *Pool) GenerateRSA(ctx context.Context, bits int) (privatePEM string, publicPEM string, err error) {
	res, err := p.submit(ctx, func() result {
		priv, pub, err := GenerateRSA(bits)
		return result{privateKey: priv, publicKey: pub, err: err}
	})

	if err != nil {
		return
	}

	return res.privateKey, res.publicKey, res.err
}

// GenerateAES queues an AES generation job and waits for a worker.
func (p *Pool) GenerateAES(ctx context.Context, length int) (key []byte, iv []byte, err error) {
	res, err := p.submit(ctx, func() result {
		key, iv, err := GenerateAES(length)
		return result{key: key, iv: iv, err: err}
	})

	if err != nil {
		return
	}

	return res.key, res.iv, res.err
}
