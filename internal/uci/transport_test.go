package uci

import (
	"context"
	"testing"
	"time"

	"github.com/notnil/chess"

	"github.com/lgbarn/swapchess-go/internal/config"
	"github.com/lgbarn/swapchess-go/internal/errors"
	"github.com/lgbarn/swapchess-go/internal/testutil"
)

func readLine(t *testing.T, tr Transport) string {
	t.Helper()
	select {
	case line, ok := <-tr.Lines():
		if !ok {
			t.Fatal("lines closed")
		}
		return line
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for engine output")
	}
	return ""
}

func TestStartProcess_EchoesLines(t *testing.T) {
	tr, err := StartProcess(context.Background(), "cat")
	if err != nil {
		t.Skipf("cat unavailable: %v", err)
	}
	defer tr.Close()

	testutil.AssertTrue(t, tr.Pid() > 0)
	testutil.AssertNoError(t, tr.Send("uci"))
	testutil.AssertNoError(t, tr.Send("isready"))
	testutil.AssertEqual(t, readLine(t, tr), "uci")
	testutil.AssertEqual(t, readLine(t, tr), "isready")

	testutil.AssertNoError(t, tr.Close())
	_, ok := <-tr.Lines()
	testutil.AssertFalse(t, ok, "lines closed after Close")
	testutil.AssertErrorIs(t, tr.Send("quit"), errors.ErrEngineClosed)
	testutil.AssertNoError(t, tr.Close(), "second Close")
}

func TestStartProcess_ReportsExitError(t *testing.T) {
	tr, err := StartProcess(context.Background(), "sh", "-c", "echo bye; exit 3")
	if err != nil {
		t.Skipf("sh unavailable: %v", err)
	}
	defer tr.Close()

	testutil.AssertEqual(t, readLine(t, tr), "bye")

	var got error
	for e := range tr.Errors() {
		got = e
	}
	testutil.AssertError(t, got)
	testutil.AssertContains(t, got.Error(), "exit status 3")
}

func TestStartProcess_ReportsStderr(t *testing.T) {
	tr, err := StartProcess(context.Background(), "sh", "-c", "echo oops >&2")
	if err != nil {
		t.Skipf("sh unavailable: %v", err)
	}
	defer tr.Close()

	var msgs []string
	for e := range tr.Errors() {
		msgs = append(msgs, e.Error())
	}
	testutil.AssertEqual(t, msgs, []string{"engine stderr: oops"})
}

func TestStartProcess_NoCommand(t *testing.T) {
	_, err := StartProcess(context.Background())
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = StartProcess(context.Background(), "")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestStartProcess_MissingBinary(t *testing.T) {
	_, err := StartProcess(context.Background(), "/nonexistent/engine-binary")
	testutil.AssertError(t, err)
}

func TestEngine_OverProcess(t *testing.T) {
	// A shell script that speaks just enough UCI.
	script := `while read cmd; do
  case "$cmd" in
    uci) echo "id name ShellFish"; echo uciok ;;
    isready) echo readyok ;;
    go*) echo "bestmove e2e4" ;;
    quit) exit 0 ;;
  esac
done`
	tr, err := StartProcess(context.Background(), "sh", "-c", script)
	if err != nil {
		t.Skipf("sh unavailable: %v", err)
	}

	b := &fakeBoard{turn: chess.White}
	e := New(tr, b, chess.White, testConfig(config.Hard))
	testutil.AssertNoError(t, e.WaitReady(context.Background()))

	res, err := e.AwaitMove(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res, Result{Move: "e2e4", Applied: true})
	testutil.AssertEqual(t, e.EngineName(), "ShellFish")
	testutil.AssertNoError(t, e.Close())
	testutil.AssertEqual(t, e.State(), StateClosed)
}
