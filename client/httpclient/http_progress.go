package httpclient

import (
	"context"
	"io"
	"time"

	"github.com/joy-dx/rxnet/utils"
)

// ProgressFunc receives transfer progress. total is -1 when unknown.
type ProgressFunc func(done, total int64, percent float64, speed float64, eta time.Duration)

type progressReader struct {
	ctx        context.Context
	reader     io.Reader
	total      int64
	readSoFar  int64
	lastReport time.Time
	lastBytes  int64
	interval   time.Duration
	onProgress ProgressFunc
	reported   bool
}

func newProgressReader(ctx context.Context, r io.Reader, total int64, interval time.Duration, fn ProgressFunc) *progressReader {
	return &progressReader{
		ctx:        ctx,
		reader:     r,
		total:      total,
		interval:   interval,
		lastReport: time.Now(),
		onProgress: fn,
	}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	select {
	case <-pr.ctx.Done():
		return 0, pr.ctx.Err()
	default:
	}

	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.readSoFar += int64(n)
	}
	now := time.Now()
	if n > 0 && now.Sub(pr.lastReport) >= pr.interval {
		pr.report(now)
	}
	// always close with a final report so callers see 100%
	if err == io.EOF && (!pr.reported || pr.lastBytes != pr.readSoFar) {
		pr.report(now)
	}
	return n, err
}

func (pr *progressReader) report(now time.Time) {
	deltaBytes := pr.readSoFar - pr.lastBytes
	deltaTime := now.Sub(pr.lastReport).Seconds()
	var speed float64
	if deltaTime > 0 {
		speed = float64(deltaBytes) / deltaTime // bytes/sec
	}

	var eta time.Duration
	if pr.total > 0 && speed > 0 {
		remaining := float64(pr.total - pr.readSoFar)
		eta = time.Duration(remaining/speed) * time.Second
	}

	pr.onProgress(pr.readSoFar, pr.total, utils.Percentage(pr.readSoFar, pr.total), speed, eta)
	pr.lastReport = now
	pr.lastBytes = pr.readSoFar
	pr.reported = true
}
