package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"ecm-api/models"

	"github.com/go-sql-driver/mysql"
)

var (
	ecrSelectPattern       = regexp.MustCompile("SELECT .* FROM `ecrs` WHERE ecr_id = .* FOR UPDATE")
	approvalsSelectPattern = regexp.MustCompile("SELECT .* FROM `ecr_approvals` WHERE ecr_id = ")
	approvalUpsertPattern  = regexp.MustCompile("INSERT INTO `ecr_approvals` .*ON DUPLICATE KEY UPDATE")
	ecrUpdatePattern       = regexp.MustCompile("UPDATE `ecrs` SET ")
	notificationPattern    = regexp.MustCompile("INSERT INTO `notifications` ")
	userSelectPattern      = regexp.MustCompile("SELECT .* FROM `users` WHERE user_id = ")
)

func approver(sector string) *Caller {
	return &Caller{
		UserID: 7,
		Email:  "approver@example.com",
		Name:   "Ana Approver",
		Sector: sector,
		Role:   models.RoleEditor,
	}
}

func pendingEcrStep(ecrID int64, affectsColumns ...string) *queryStep {
	columns := []string{"ecr_id", "status", "creator_uid"}
	row := []driver.Value{ecrID, models.EcrStatusPending, int64(9)}
	for _, col := range affectsColumns {
		columns = append(columns, col)
		row = append(row, int64(1))
	}
	// trailing arg is the parameterized LIMIT 1 from First
	return &queryStep{
		kind:    kindQuery,
		pattern: ecrSelectPattern,
		args:    []driver.Value{ecrID, int64(1)},
		columns: columns,
		rows:    [][]driver.Value{row},
	}
}

func TestRecordApprovalRejectsMissingCaller(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	service := NewEcrApprovalService(db)
	input := ApprovalInput{EcrID: 5, Department: models.DeptCalidad, Decision: models.DecisionApproved}

	if _, err := service.RecordApproval(context.Background(), input, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRecordApprovalValidatesInput(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	service := NewEcrApprovalService(db)
	caller := approver(models.DeptCalidad)

	cases := []ApprovalInput{
		{EcrID: 0, Department: models.DeptCalidad, Decision: models.DecisionApproved},
		{EcrID: 5, Department: "", Decision: models.DecisionApproved},
		{EcrID: 5, Department: models.DeptCalidad, Decision: ""},
		{EcrID: 5, Department: "not_a_department", Decision: models.DecisionApproved},
		{EcrID: 5, Department: models.DeptCalidad, Decision: "maybe"},
	}
	for _, input := range cases {
		if _, err := service.RecordApproval(context.Background(), input, caller); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("input %+v: expected ErrInvalidArgument, got %v", input, err)
		}
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRecordApprovalNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: ecrSelectPattern,
			args:    []driver.Value{int64(5), int64(1)},
			columns: []string{"ecr_id"},
			rows:    [][]driver.Value{},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewEcrApprovalService(db)
	input := ApprovalInput{EcrID: 5, Department: models.DeptCalidad, Decision: models.DecisionApproved}

	if _, err := service.RecordApproval(context.Background(), input, approver(models.DeptCalidad)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRecordApprovalPermissionDeniedLeavesRecordUnchanged(t *testing.T) {
	steps := []*queryStep{
		pendingEcrStep(5, "afecta_calidad"),
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewEcrApprovalService(db)
	input := ApprovalInput{EcrID: 5, Department: models.DeptCalidad, Decision: models.DecisionApproved}

	// sector compras, plain editor: not allowed to decide for calidad
	_, err := service.RecordApproval(context.Background(), input, approver(models.DeptCompras))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	// No write step was scripted, so completing cleanly proves the
	// transaction rolled back without touching the record.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRecordApprovalAdminMayDecideForAnyDepartment(t *testing.T) {
	steps := []*queryStep{
		pendingEcrStep(5, "afecta_calidad", "afecta_compras"),
		{
			kind:    kindQuery,
			pattern: approvalsSelectPattern,
			args:    []driver.Value{int64(5)},
			columns: []string{"approval_id"},
			rows:    [][]driver.Value{},
		},
		{kind: kindExec, pattern: approvalUpsertPattern},
		{kind: kindExec, pattern: ecrUpdatePattern},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewEcrApprovalService(db)
	admin := &Caller{UserID: 1, Email: "admin@example.com", Name: "Root", Sector: "", Role: models.RoleAdmin}
	input := ApprovalInput{EcrID: 5, Department: models.DeptCalidad, Decision: models.DecisionStandBy}

	result, err := service.RecordApproval(context.Background(), input, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.StatusChanged {
		t.Fatalf("stand-by must not finalize the workflow: %+v", result)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRecordApprovalLastRequiredApprovalFlipsStatus(t *testing.T) {
	steps := []*queryStep{
		pendingEcrStep(5, "afecta_calidad", "afecta_compras"),
		{
			kind:    kindQuery,
			pattern: approvalsSelectPattern,
			args:    []driver.Value{int64(5)},
			columns: []string{"approval_id", "ecr_id", "department", "status"},
			rows: [][]driver.Value{
				{int64(1), int64(5), models.DeptCompras, models.DecisionApproved},
			},
		},
		{kind: kindExec, pattern: approvalUpsertPattern},
		{kind: kindExec, pattern: ecrUpdatePattern},
		// post-commit creator notification
		{kind: kindExec, pattern: notificationPattern},
		{
			kind:    kindQuery,
			pattern: userSelectPattern,
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(9), "creator@example.com"}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewEcrApprovalService(db)
	input := ApprovalInput{EcrID: 5, Department: models.DeptCalidad, Decision: models.DecisionApproved, Comment: "ok"}

	result, err := service.RecordApproval(context.Background(), input, approver(models.DeptCalidad))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.StatusChanged || result.NewStatus != models.EcrStatusApproved {
		t.Fatalf("expected approved transition, got %+v", result)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRecordApprovalRejectionFlipsStatusImmediately(t *testing.T) {
	steps := []*queryStep{
		pendingEcrStep(5, "afecta_calidad", "afecta_compras"),
		{
			kind:    kindQuery,
			pattern: approvalsSelectPattern,
			args:    []driver.Value{int64(5)},
			columns: []string{"approval_id"},
			rows:    [][]driver.Value{},
		},
		{kind: kindExec, pattern: approvalUpsertPattern},
		{kind: kindExec, pattern: ecrUpdatePattern},
		{kind: kindExec, pattern: notificationPattern},
		{
			kind:    kindQuery,
			pattern: userSelectPattern,
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(9), "creator@example.com"}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewEcrApprovalService(db)
	input := ApprovalInput{EcrID: 5, Department: models.DeptCalidad, Decision: models.DecisionRejected, Comment: "tooling cost"}

	result, err := service.RecordApproval(context.Background(), input, approver(models.DeptCalidad))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.StatusChanged || result.NewStatus != models.EcrStatusRejected {
		t.Fatalf("expected rejected transition, got %+v", result)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

// Two required departments decide nearly simultaneously: this writer's first
// attempt loses a deadlock, retries, and on the fresh read observes the
// competing department's committed approval, converging to approved without a
// lost update.
func TestRecordApprovalRetriesOnDeadlockAndSeesConcurrentWrite(t *testing.T) {
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}

	steps := []*queryStep{
		// attempt 1: nobody has acted yet, upsert hits a deadlock
		pendingEcrStep(5, "afecta_calidad", "afecta_compras"),
		{
			kind:    kindQuery,
			pattern: approvalsSelectPattern,
			args:    []driver.Value{int64(5)},
			columns: []string{"approval_id"},
			rows:    [][]driver.Value{},
		},
		{kind: kindExec, pattern: approvalUpsertPattern, err: deadlock},
		// attempt 2: the concurrent approver's entry is now visible
		pendingEcrStep(5, "afecta_calidad", "afecta_compras"),
		{
			kind:    kindQuery,
			pattern: approvalsSelectPattern,
			args:    []driver.Value{int64(5)},
			columns: []string{"approval_id", "ecr_id", "department", "status"},
			rows: [][]driver.Value{
				{int64(1), int64(5), models.DeptCompras, models.DecisionApproved},
			},
		},
		{kind: kindExec, pattern: approvalUpsertPattern},
		{kind: kindExec, pattern: ecrUpdatePattern},
		{kind: kindExec, pattern: notificationPattern},
		{
			kind:    kindQuery,
			pattern: userSelectPattern,
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(9), "creator@example.com"}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewEcrApprovalService(db)
	input := ApprovalInput{EcrID: 5, Department: models.DeptCalidad, Decision: models.DecisionApproved}

	result, err := service.RecordApproval(context.Background(), input, approver(models.DeptCalidad))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.StatusChanged || result.NewStatus != models.EcrStatusApproved {
		t.Fatalf("expected approved transition after retry, got %+v", result)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
