package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"todosync/internal/commands"
	"todosync/internal/config"
	"todosync/internal/exitcode"
	"todosync/internal/operations"
	"todosync/internal/service"
	"todosync/internal/store"
	"todosync/internal/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// newFakeService returns a fake with two lists: Work holding an open and a
// completed task, and an empty Home.
func newFakeService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddList("work", "Work")
	svc.AddList("home", "Home")
	svc.AddTask("work", "t1", "Write report")
	svc.AddTaskWithStatus("work", "t2", "File taxes", service.StatusCompleted)
	return svc
}

// runCommand parses argv with the command's flags and runs it against a
// fresh store backed by svc.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, quiet bool, argv ...string) (stdout, stderr string, code int) {
	t.Helper()

	var ops *operations.Runner
	if svc != nil {
		ops = operations.NewRunner(store.New(nil), svc, nil)
	}
	return runWithRunner(t, cmd, ops, quiet, argv...)
}

func runWithRunner(t *testing.T, cmd commands.Command, ops *operations.Runner, quiet bool, argv ...string) (stdout, stderr string, code int) {
	t.Helper()

	fs := newFlagSet(cmd)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:      t.TempDir(),
		Quiet:    quiet,
		Settings: config.DefaultSettings(),
	}

	code = cmd.Run(context.Background(), cfg, ops, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func newFlagSet(cmd commands.Command) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	return fs
}

func expectResult(t *testing.T, gotCode int, gotOut, gotErr string, wantCode int, wantOut, wantErr string) {
	t.Helper()
	if gotCode != wantCode {
		t.Errorf("expected exit code %d, got %d", wantCode, gotCode)
	}
	if gotOut != wantOut {
		t.Errorf("expected stdout %q, got %q", wantOut, gotOut)
	}
	if gotErr != wantErr {
		t.Errorf("expected stderr %q, got %q", wantErr, gotErr)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, false)
	expectResult(t, code, stdout, stderr, exitcode.Success, "todosync 0.1.0\n", "")
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestHelpMentionsEveryCommand(t *testing.T) {
	stdout, _, _ := runCommand(t, &commands.HelpCmd{}, nil, false)
	for _, cmd := range commands.DefaultRegistry.All() {
		if !strings.Contains(stdout, "todosync "+cmd.Name()) {
			t.Errorf("help output does not mention %s", cmd.Name())
		}
	}
}

func TestListsCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, newFakeService(), false)
	expectResult(t, code, stdout, stderr, exitcode.Success, "a  Work\nb  Home\n", "")
}

func TestListsCommand_Empty(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, testutil.NewFakeService(), false)
	expectResult(t, code, stdout, stderr, exitcode.Success, "no lists found\n", "")
}

func TestListCommand_All(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newFakeService(), false)

	want := "------------\n" +
		"a  Work\n" +
		"------------\n" +
		"   a1  [ ] Write report\n" +
		"   a2  [x] File taxes\n" +
		"------------\n" +
		"b  Home\n" +
		"------------\n"
	expectResult(t, code, stdout, stderr, exitcode.Success, want, "")
}

func TestListCommand_FilterActive(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newFakeService(), false, "--filter", "active")

	want := "------------\n" +
		"a  Work [active]\n" +
		"------------\n" +
		"   a1  [ ] Write report\n" +
		"------------\n" +
		"b  Home [active]\n" +
		"------------\n"
	expectResult(t, code, stdout, stderr, exitcode.Success, want, "")
}

func TestListCommand_OneListKeepsNumbers(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newFakeService(), false, "-f", "completed", "work")

	want := "------------\n" +
		"a  Work [completed]\n" +
		"------------\n" +
		"   a2  [x] File taxes\n"
	expectResult(t, code, stdout, stderr, exitcode.Success, want, "")
}

func TestListCommand_InvalidFilter(t *testing.T) {
	svc := newFakeService()
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, false, "--filter", "done")

	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: invalid filter: done\n")
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no backend calls, got %d", svc.TotalCalls())
	}
}

func TestListCommand_NoTasks(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), false)
	expectResult(t, code, stdout, stderr, exitcode.Success, "no tasks found\n", "")

	stdout, stderr, code = runCommand(t, &commands.ListCmd{}, testutil.NewFakeService(), true)
	expectResult(t, code, stdout, stderr, exitcode.Success, "", "")
}

func TestListCommand_UnknownList(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newFakeService(), false, "Garden")
	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: list not found: Garden\n")
}

func TestListCommand_BackendError(t *testing.T) {
	svc := newFakeService()
	svc.GetTodolistsErr = errors.New("connection refused")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, false)
	expectResult(t, code, stdout, stderr, exitcode.BackendError, "", "error: backend error: connection refused\n")
}

func TestListCommand_PartialFailureKeepsLoadedLists(t *testing.T) {
	svc := newFakeService()
	svc.GetTasksErr["home"] = errors.New("connection reset")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, false)

	want := "------------\n" +
		"a  Work\n" +
		"------------\n" +
		"   a1  [ ] Write report\n" +
		"   a2  [x] File taxes\n" +
		"------------\n" +
		"b  Home\n" +
		"------------\n"
	expectResult(t, code, stdout, stderr, exitcode.BackendError, want, "last sync failed: connection reset\n")
}

func TestAddCommand_FirstList(t *testing.T) {
	svc := newFakeService()
	svc.QueueIDs("n1")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, false, "Buy", "milk")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	tasks := svc.Tasks("work")
	if len(tasks) != 3 || tasks[0].ID != "n1" || tasks[0].Title != "Buy milk" {
		t.Errorf("expected Buy milk at the front of Work, got %+v", tasks)
	}
}

func TestAddCommand_WithList(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, true, "--list", "home", "Water plants")
	expectResult(t, code, stdout, stderr, exitcode.Success, "", "")

	tasks := svc.Tasks("home")
	if len(tasks) != 1 || tasks[0].Title != "Water plants" {
		t.Errorf("expected Water plants in Home, got %+v", tasks)
	}
}

func TestAddCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		svc     func() *testutil.FakeService
		argv    []string
		code    int
		wantErr string
	}{
		{
			name:    "no title",
			svc:     newFakeService,
			code:    exitcode.UserError,
			wantErr: "error: title required\n",
		},
		{
			name:    "no lists",
			svc:     testutil.NewFakeService,
			argv:    []string{"Buy milk"},
			code:    exitcode.UserError,
			wantErr: "error: no lists (run: todosync createlist <title>)\n",
		},
		{
			name: "rejected",
			svc: func() *testutil.FakeService {
				svc := newFakeService()
				svc.Rejections[testutil.MethodCreateTask] = testutil.Rejection{
					Code:     service.ResultReject,
					Messages: []string{"Title is too long"},
				}
				return svc
			},
			argv:    []string{"Buy milk"},
			code:    exitcode.BackendError,
			wantErr: "error: backend error: Title is too long\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.AddCmd{}, tc.svc(), false, tc.argv...)
			expectResult(t, code, stdout, stderr, tc.code, "", tc.wantErr)
		})
	}
}

func TestDoneCommand(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, false, "a1")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	updates := svc.Updates()
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	if updates[0].Status != service.StatusCompleted {
		t.Errorf("expected completed status, got %v", updates[0].Status)
	}
	if updates[0].Title != "Write report" {
		t.Errorf("expected the stored title to be sent, got %q", updates[0].Title)
	}
}

func TestDoneCommand_Undo(t *testing.T) {
	svc := newFakeService()

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, true, "--undo", "a", "2")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	if got := svc.Tasks("work")[1].Status; got != service.StatusNew {
		t.Errorf("expected task reopened, got %v", got)
	}
}

func TestDoneCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		code    int
		wantErr string
	}{
		{"no ref", nil, exitcode.UserError, "error: task reference required\n"},
		{"bad ref", []string{"x!"}, exitcode.UserError, "error: invalid task reference: x!\n"},
		{"zero", []string{"0"}, exitcode.UserError, "error: task number out of range: 0\n"},
		{"out of range", []string{"a5"}, exitcode.UserError, "error: task number out of range: a5\n"},
		{"unknown letter", []string{"c1"}, exitcode.UserError, "error: list letter not found: c\n"},
		{"list and letter", []string{"--list", "Work", "b1"}, exitcode.UserError, "error: cannot use both --list and list letter\n"},
		{"unknown list", []string{"--list", "Garden", "1"}, exitcode.UserError, "error: list not found: Garden\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newFakeService()
			stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, false, tc.argv...)
			expectResult(t, code, stdout, stderr, tc.code, "", tc.wantErr)
			if svc.CallCount(testutil.MethodUpdateTask) != 0 {
				t.Error("expected no update call")
			}
		})
	}
}

func TestUpdateCommand(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, false,
		"--priority", "high", "--deadline", "2024-05-01", "--description", "quarterly", "1")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	updates := svc.Updates()
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	got := updates[0]
	if got.Title != "Write report" || got.Status != service.StatusNew {
		t.Errorf("expected untouched fields to be sent as stored, got %+v", got)
	}
	if got.Priority != service.PriorityHigh || got.Description != "quarterly" {
		t.Errorf("expected priority and description to change, got %+v", got)
	}
	if got.Deadline == nil || got.Deadline.Format("2006-01-02") != "2024-05-01" {
		t.Errorf("expected deadline 2024-05-01, got %v", got.Deadline)
	}
}

func TestUpdateCommand_ClearDate(t *testing.T) {
	svc := newFakeService()

	_, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, true, "--start", "none", "a1")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	start := svc.Updates()[0].StartDate
	if start != nil {
		t.Errorf("expected a cleared start date, got %v", start)
	}
}

func TestUpdateCommand_NothingToUpdate(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, false, "a1")
	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: nothing to update\n")
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no backend calls, got %d", svc.TotalCalls())
	}
}

func TestUpdateCommand_InvalidFlagValue(t *testing.T) {
	fs := newFlagSet(&commands.UpdateCmd{})

	for _, argv := range [][]string{
		{"--status", "finished", "1"},
		{"--priority", "asap", "1"},
		{"--deadline", "tomorrow", "1"},
		{"--title", " ", "1"},
	} {
		if err := fs.Parse(argv); err == nil {
			t.Errorf("expected %v to be rejected", argv)
		}
	}
}

func TestRmCommand(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, false, "2")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	tasks := svc.Tasks("work")
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("expected only t1 left, got %+v", tasks)
	}
}

func TestRmCommand_SeveralTasks(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, false, "a1", "2", "1")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	if tasks := svc.Tasks("work"); len(tasks) != 0 {
		t.Errorf("expected no tasks left, got %+v", tasks)
	}
	if n := svc.CallCount(testutil.MethodDeleteTask); n != 2 {
		t.Errorf("expected 2 deletes, got %d", n)
	}
}

func TestRmCommand_BadRefDeletesNothing(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, false, "a1", "a9")
	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: task number out of range: a9\n")

	if n := svc.CallCount(testutil.MethodDeleteTask); n != 0 {
		t.Errorf("expected no deletes, got %d", n)
	}
}

func TestRmCommand_BackendError(t *testing.T) {
	svc := newFakeService()
	svc.DeleteTaskErr = errors.New("request timed out")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, false, "a1")
	expectResult(t, code, stdout, stderr, exitcode.BackendError, "", "error: backend error: request timed out\n")
}

func TestCreateListCommand(t *testing.T) {
	svc := newFakeService()
	svc.QueueIDs("garden")

	stdout, stderr, code := runCommand(t, &commands.CreateListCmd{}, svc, false, "Garden")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	lists := svc.Lists()
	if len(lists) != 3 || lists[0].Title != "Garden" {
		t.Errorf("expected Garden first, got %+v", lists)
	}
}

func TestCreateListCommand_Errors(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.CreateListCmd{}, newFakeService(), false)
	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: list name required\n")

	svc := newFakeService()
	stdout, stderr, code = runCommand(t, &commands.CreateListCmd{}, svc, false, "work")
	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: list already exists: work\n")
	if svc.CallCount(testutil.MethodCreateTodolist) != 0 {
		t.Error("expected no create call")
	}
}

func TestRenameListCommand(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.RenameListCmd{}, svc, false, "--title", "Office", "b")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	if got := svc.Lists()[1].Title; got != "Office" {
		t.Errorf("expected Home renamed to Office, got %q", got)
	}
}

func TestRenameListCommand_MissingTitle(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.RenameListCmd{}, newFakeService(), false, "Work")
	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: new title required (use --title)\n")
}

func TestRmListCommand(t *testing.T) {
	svc := newFakeService()

	stdout, stderr, code := runCommand(t, &commands.RmListCmd{}, svc, false, "Work")
	expectResult(t, code, stdout, stderr, exitcode.UserError, "", "error: list not empty (use --force)\n")

	stdout, stderr, code = runCommand(t, &commands.RmListCmd{}, svc, false, "Home")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	stdout, stderr, code = runCommand(t, &commands.RmListCmd{}, svc, false, "--force", "Work")
	expectResult(t, code, stdout, stderr, exitcode.Success, "ok\n", "")

	if len(svc.Lists()) != 0 {
		t.Errorf("expected no lists left, got %+v", svc.Lists())
	}
}

func TestRmListCommand_RejectedKeepsList(t *testing.T) {
	svc := newFakeService()
	svc.Rejections[testutil.MethodDeleteTodolist] = testutil.Rejection{Code: service.ResultReject}
	ops := operations.NewRunner(store.New(nil), svc, nil)

	stdout, stderr, code := runWithRunner(t, &commands.RmListCmd{}, ops, false, "home")
	expectResult(t, code, stdout, stderr, exitcode.BackendError, "", "error: backend error: "+operations.DefaultErrorMessage+"\n")

	tl, ok := store.SelectTodolist(ops.State(), "home")
	if !ok {
		t.Fatal("expected Home to stay in the store")
	}
	if tl.EntityStatus != store.StatusIdle {
		t.Errorf("expected entity status idle, got %q", tl.EntityStatus)
	}
	if store.SelectAppStatus(ops.State()) != store.StatusFailed {
		t.Errorf("expected failed app status, got %q", store.SelectAppStatus(ops.State()))
	}
}
