package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestTimeLogsRequestIDAndError(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "abc-123")

	err := errors.New("boom")
	Time(ctx, "geocode.provider")(&err)

	line := buf.String()
	if !strings.Contains(line, "req_id=abc-123 op=geocode.provider") {
		t.Fatalf("missing request id/op in %q", line)
	}
	if !strings.Contains(line, "err=boom") {
		t.Fatalf("missing error in %q", line)
	}
}

func TestRequestIDDefault(t *testing.T) {
	if got := RequestID(context.Background()); got != "-" {
		t.Fatalf("RequestID = %q, want -", got)
	}
}
