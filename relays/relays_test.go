package relays

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/joy-dx/rxnet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

type recordingRelay struct {
	mu     sync.Mutex
	levels []string
	evts   []relayDTO.RelayEventInterface
}

func (r *recordingRelay) Debug(data relayDTO.RelayEventInterface) { r.add("debug", data) }
func (r *recordingRelay) Info(data relayDTO.RelayEventInterface)  { r.add("info", data) }
func (r *recordingRelay) Warn(data relayDTO.RelayEventInterface)  { r.add("warn", data) }
func (r *recordingRelay) Error(data relayDTO.RelayEventInterface) { r.add("error", data) }
func (r *recordingRelay) Fatal(data relayDTO.RelayEventInterface) { r.add("fatal", data) }
func (r *recordingRelay) Meta(data relayDTO.RelayEventInterface)  { r.add("meta", data) }

func (r *recordingRelay) add(level string, e relayDTO.RelayEventInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = append(r.levels, level)
	r.evts = append(r.evts, e)
}

func TestRelaySink_Golden(t *testing.T) {
	t.Parallel()

	rec := &recordingRelay{}
	sink := NewRelaySink(rec)

	sink.SessionExpired(401)
	sink.ServiceClientError(404)
	sink.ReachabilityChanged(dto.ReachabilityNotReachable)

	wantLevels := []string{"warn", "info", "info"}
	wantTypes := []relayDTO.EventRef{RlySessionExpiredRef, RlyClientErrorRef, RlyReachabilityRef}
	if len(rec.evts) != 3 {
		t.Fatalf("events=%d want 3", len(rec.evts))
	}
	for i := range wantLevels {
		if rec.levels[i] != wantLevels[i] {
			t.Fatalf("level[%d]=%s want %s", i, rec.levels[i], wantLevels[i])
		}
		if rec.evts[i].RelayType() != wantTypes[i] {
			t.Fatalf("type[%d]=%s want %s", i, rec.evts[i].RelayType(), wantTypes[i])
		}
	}
}

func TestMultiSink_FuncSink_Golden(t *testing.T) {
	t.Parallel()

	var got []int
	sink := MultiSink{
		FuncSink{OnSessionExpired: func(code int) { got = append(got, code) }},
		FuncSink{OnSessionExpired: func(code int) { got = append(got, code*10) }},
		FuncSink{},
	}
	sink.SessionExpired(401)
	sink.ServiceClientError(404)
	sink.ReachabilityChanged(dto.ReachabilityReachable)

	if len(got) != 2 || got[0] != 401 || got[1] != 4010 {
		t.Fatalf("got=%v", got)
	}
}

func TestSlogRelay_Golden(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	r := NewSlogRelay(logger)

	r.Debug(RlyNetLog{Msg: "hidden"})
	r.Warn(RlySessionExpired{Code: 401})
	r.Fatal(RlyNetLog{Msg: "bad"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug event written at info level: %s", out)
	}
	for _, want := range []string{"session expired", "code=401", "type=rxnet.signal.session_expired", "fatal=true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %s", want, out)
		}
	}
}
