package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blade-bes/besd/internal/dbexec"
)

// dialect captures the handful of places postgres and sqlite diverge: bind-parameter
// style. Both accept the same ON CONFLICT / upsert syntax and both accept time.Time
// driver values directly, so a single query set serves both backends.
type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

var (
	_ Store = (*sqlStore)(nil)
)

func (s *sqlStore) ph(n int) string {
	if s.dialect == dialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// phList returns a comma-joined list of n placeholders starting at offset start.
func (s *sqlStore) phList(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = s.ph(start + i)
	}
	return strings.Join(parts, ", ")
}

func (s *sqlStore) HealthCheck(ctx context.Context) error {
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrBackend, err)
}

func joinPattern(pattern []string) *string {
	if len(pattern) == 0 {
		return nil
	}
	s := strings.Join(pattern, ",")
	return &s
}

func splitPattern(pattern *string) []string {
	if pattern == nil || *pattern == "" {
		return nil
	}
	return strings.Split(*pattern, ",")
}

func (s *sqlStore) UpsertShallowInvocation(ctx context.Context, inv *Invocation) error {
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		query := fmt.Sprintf(`
			INSERT INTO invocations (id, status, start, "end", command, pattern, last_heartbeat, profile_uri)
			VALUES (%s)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				start = excluded.start,
				"end" = excluded."end",
				command = excluded.command,
				pattern = excluded.pattern,
				last_heartbeat = excluded.last_heartbeat,
				profile_uri = excluded.profile_uri`, s.phList(1, 8))

		_, err := s.db.ExecContext(ctx, query,
			inv.ID, inv.Status.String(), inv.Start, inv.End, inv.Command,
			joinPattern(inv.Pattern), inv.LastHeartbeat, inv.ProfileURI)
		return wrapErr(err)
	})
}

func (s *sqlStore) getInvocationRow(ctx context.Context, id string) (*Invocation, error) {
	query := fmt.Sprintf(`SELECT id, status, start, "end", command, pattern, last_heartbeat, profile_uri
		FROM invocations WHERE id = %s`, s.ph(1))
	row := s.db.QueryRowContext(ctx, query, id)

	var inv Invocation
	var end, lastHeartbeat sql.NullTime
	var pattern, profileURI sql.NullString
	var status string
	if err := row.Scan(&inv.ID, &status, &inv.Start, &end, &inv.Command, &pattern, &lastHeartbeat, &profileURI); err != nil {
		return nil, wrapErr(err)
	}
	inv.Status = ParseStatus(status)
	if end.Valid {
		inv.End = &end.Time
	}
	if lastHeartbeat.Valid {
		inv.LastHeartbeat = &lastHeartbeat.Time
	}
	if pattern.Valid {
		inv.Pattern = splitPattern(&pattern.String)
	}
	if profileURI.Valid {
		inv.ProfileURI = &profileURI.String
	}
	return &inv, nil
}

func (s *sqlStore) GetShallowInvocation(ctx context.Context, id string) (*Invocation, error) {
	return dbexec.Run(ctx, func(ctx context.Context) (*Invocation, error) {
		return s.getInvocationRow(ctx, id)
	})
}

func (s *sqlStore) UpdateShallowInvocation(ctx context.Context, id string, mutate InvocationMutator) error {
	_, err := dbexec.Group(ctx, func(ctx context.Context) (struct{}, error) {
		inv, err := s.getInvocationRow(ctx, id)
		if err != nil {
			return struct{}{}, err
		}
		mutate(inv)

		query := fmt.Sprintf(`UPDATE invocations SET status = %s, start = %s, "end" = %s,
			command = %s, pattern = %s, last_heartbeat = %s, profile_uri = %s WHERE id = %s`,
			s.ph(1), s.ph(2), s.ph(3), s.ph(4), s.ph(5), s.ph(6), s.ph(7), s.ph(8))
		_, err = s.db.ExecContext(ctx, query,
			inv.Status.String(), inv.Start, inv.End, inv.Command,
			joinPattern(inv.Pattern), inv.LastHeartbeat, inv.ProfileURI, inv.ID)
		return struct{}{}, wrapErr(err)
	})
	return err
}

type invocationAssembly struct {
	inv     *Invocation
	targets map[string]Target
	tests   map[string]Test
}

func (s *sqlStore) GetInvocation(ctx context.Context, id string) (*Invocation, map[string]Target, map[string]Test, error) {
	asm, err := dbexec.Group(ctx, func(ctx context.Context) (invocationAssembly, error) {
		inv, err := s.getInvocationRow(ctx, id)
		if err != nil {
			return invocationAssembly{}, err
		}

		targets := map[string]Target{}
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT name, status, kind, start, "end" FROM targets WHERE invocation_id = %s`, s.ph(1)), id)
		if err != nil {
			return invocationAssembly{}, wrapErr(err)
		}
		for rows.Next() {
			var t Target
			var status string
			var end sql.NullTime
			if err := rows.Scan(&t.Name, &status, &t.Kind, &t.Start, &end); err != nil {
				rows.Close()
				return invocationAssembly{}, wrapErr(err)
			}
			t.Status = ParseStatus(status)
			if end.Valid {
				t.End = &end.Time
			}
			targets[t.Name] = t
		}
		rows.Close()

		tests := map[string]Test{}
		testIDs := map[string]string{}
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT id, name, status, duration_s, "end", num_runs FROM tests WHERE invocation_id = %s`, s.ph(1)), id)
		if err != nil {
			return invocationAssembly{}, wrapErr(err)
		}
		for rows.Next() {
			var testID string
			var t Test
			var status string
			var durationS sql.NullFloat64
			var numRuns sql.NullInt64
			if err := rows.Scan(&testID, &t.Name, &status, &durationS, &t.End, &numRuns); err != nil {
				rows.Close()
				return invocationAssembly{}, wrapErr(err)
			}
			t.Status = ParseStatus(status)
			if durationS.Valid {
				t.Duration = time.Duration(durationS.Float64 * float64(time.Second))
			}
			if numRuns.Valid {
				t.NumRuns = int(numRuns.Int64)
			}
			tests[t.Name] = t
			testIDs[testID] = t.Name
		}
		rows.Close()

		for testID, name := range testIDs {
			runs, err := s.getTestRuns(ctx, testID)
			if err != nil {
				return invocationAssembly{}, err
			}
			t := tests[name]
			t.Runs = runs
			tests[name] = t
		}

		return invocationAssembly{inv: inv, targets: targets, tests: tests}, nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return asm.inv, asm.targets, asm.tests, nil
}

func (s *sqlStore) getTestRuns(ctx context.Context, testID string) ([]TestRun, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, run, shard, attempt, status, details, duration_s FROM testruns WHERE test_id = %s`, s.ph(1)), testID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var runs []TestRun
	runIDs := map[string]int{}
	for rows.Next() {
		var runRowID string
		var tr TestRun
		var status string
		if err := rows.Scan(&runRowID, &tr.Run, &tr.Shard, &tr.Attempt, &status, &tr.Details, &tr.Duration); err != nil {
			return nil, wrapErr(err)
		}
		tr.Status = ParseStatus(status)
		tr.Files = map[string]TestArtifact{}
		runs = append(runs, tr)
		runIDs[runRowID] = len(runs) - 1
	}

	for runRowID, idx := range runIDs {
		artifacts, err := s.getTestArtifacts(ctx, runRowID)
		if err != nil {
			return nil, err
		}
		runs[idx].Files = artifacts
	}
	return runs, nil
}

func (s *sqlStore) getTestArtifacts(ctx context.Context, testRunID string) (map[string]TestArtifact, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT name, uri FROM testartifacts WHERE test_run_id = %s`, s.ph(1)), testRunID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	out := map[string]TestArtifact{}
	for rows.Next() {
		var a TestArtifact
		if err := rows.Scan(&a.Name, &a.URI); err != nil {
			return nil, wrapErr(err)
		}
		out[a.Name] = a
	}
	return out, nil
}

func (s *sqlStore) DeleteInvocation(ctx context.Context, id string) error {
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM invocations WHERE id = %s`, s.ph(1)), id)
		return wrapErr(err)
	})
}

// DeleteInvocationsSince deletes invocations with start <= cutoff. The name reads as
// "since cutoff" but the comparison is "at or before" — preserved verbatim from the
// source implementation per the design notes.
func (s *sqlStore) DeleteInvocationsSince(ctx context.Context, cutoff time.Time) (int64, error) {
	return dbexec.Run(ctx, func(ctx context.Context) (int64, error) {
		res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM invocations WHERE start <= %s`, s.ph(1)), cutoff)
		if err != nil {
			return 0, wrapErr(err)
		}
		n, err := res.RowsAffected()
		return n, wrapErr(err)
	})
}

func (s *sqlStore) UpsertTarget(ctx context.Context, invID string, target *Target) error {
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		id := invID + "|" + target.Name
		query := fmt.Sprintf(`
			INSERT INTO targets (id, invocation_id, name, status, kind, start, "end")
			VALUES (%s)
			ON CONFLICT(invocation_id, name) DO UPDATE SET
				status = excluded.status, kind = excluded.kind, start = excluded.start, "end" = excluded."end"`,
			s.phList(1, 7))
		_, err := s.db.ExecContext(ctx, query, id, invID, target.Name, target.Status.String(), target.Kind, target.Start, target.End)
		return wrapErr(err)
	})
}

func (s *sqlStore) UpdateTargetResult(ctx context.Context, invID, name string, status Status, end time.Time) error {
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		query := fmt.Sprintf(`UPDATE targets SET status = %s, "end" = %s WHERE invocation_id = %s AND name = %s`,
			s.ph(1), s.ph(2), s.ph(3), s.ph(4))
		_, err := s.db.ExecContext(ctx, query, status.String(), end, invID, name)
		return wrapErr(err)
	})
}

func (s *sqlStore) UpsertTest(ctx context.Context, invID string, test *Test) (string, error) {
	return dbexec.Run(ctx, func(ctx context.Context) (string, error) {
		id := invID + "|" + test.Name
		var durationS *float64
		if test.Duration > 0 {
			d := test.Duration.Seconds()
			durationS = &d
		}
		var numRuns *int
		if test.NumRuns > 0 {
			n := test.NumRuns
			numRuns = &n
		}
		query := fmt.Sprintf(`
			INSERT INTO tests (id, invocation_id, name, status, duration_s, "end", num_runs)
			VALUES (%s)
			ON CONFLICT(invocation_id, name) DO UPDATE SET
				status = excluded.status, duration_s = excluded.duration_s, "end" = excluded."end", num_runs = excluded.num_runs`,
			s.phList(1, 7))
		_, err := s.db.ExecContext(ctx, query, id, invID, test.Name, test.Status.String(), durationS, test.End, numRuns)
		if err != nil {
			return "", wrapErr(err)
		}
		return id, nil
	})
}

func (s *sqlStore) UpdateTestResult(ctx context.Context, invID, name string, status Status, duration time.Duration, numRuns int) error {
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		query := fmt.Sprintf(`UPDATE tests SET status = %s, duration_s = %s, num_runs = %s WHERE invocation_id = %s AND name = %s`,
			s.ph(1), s.ph(2), s.ph(3), s.ph(4), s.ph(5))
		_, err := s.db.ExecContext(ctx, query, status.String(), duration.Seconds(), numRuns, invID, name)
		return wrapErr(err)
	})
}

func (s *sqlStore) UpsertTestRun(ctx context.Context, invID, testID string, run *TestRun) error {
	_, err := dbexec.Group(ctx, func(ctx context.Context) (struct{}, error) {
		runID := fmt.Sprintf("%s|%d|%d|%d", testID, run.Run, run.Shard, run.Attempt)
		query := fmt.Sprintf(`
			INSERT INTO testruns (id, invocation_id, test_id, run, shard, attempt, status, details, duration_s)
			VALUES (%s)
			ON CONFLICT(id) DO UPDATE SET status = excluded.status, details = excluded.details, duration_s = excluded.duration_s`,
			s.phList(1, 9))
		_, err := s.db.ExecContext(ctx, query, runID, invID, testID, run.Run, run.Shard, run.Attempt,
			run.Status.String(), run.Details, run.Duration.Seconds())
		if err != nil {
			return struct{}{}, wrapErr(err)
		}

		for name, artifact := range run.Files {
			artifactID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(invID+"/"+runID+"/"+name)).String()
			aq := fmt.Sprintf(`
				INSERT INTO testartifacts (id, invocation_id, test_run_id, name, uri)
				VALUES (%s)
				ON CONFLICT(id) DO NOTHING`, s.phList(1, 5))
			if _, err := s.db.ExecContext(ctx, aq, artifactID, invID, runID, name, artifact.URI); err != nil {
				return struct{}{}, wrapErr(err)
			}
		}
		return struct{}{}, nil
	})
	return err
}

func (s *sqlStore) InsertOptions(ctx context.Context, invID string, opts BuildOptions) error {
	type row struct {
		id, kind, keyval string
	}
	var rows []row

	appendKind := func(values []string, kind string) {
		if len(values) == 0 {
			return
		}
		base := uuid.NewString()
		for i, v := range values {
			rows = append(rows, row{
				id:     fmt.Sprintf("%s-%04d", base, i),
				kind:   kind,
				keyval: ScrubOption(v),
			})
		}
	}

	appendKind(opts.Unstructured, "Unstructured")
	appendKind(opts.Startup, "Startup")
	appendKind(opts.ExplicitStartup, "Explicit Startup")
	appendKind(opts.CmdLine, "Command Line")
	appendKind(opts.ExplicitCmdLine, "Explicit Command Line")
	for kind, values := range opts.Structured {
		appendKind(values, kind)
	}
	for k, v := range opts.BuildMetadata {
		rows = append(rows, row{
			id:     uuid.NewString(),
			kind:   "Build Metadata",
			keyval: ScrubOption(k + "=" + v),
		})
	}

	if len(rows) == 0 {
		return nil
	}

	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		query := fmt.Sprintf(`INSERT INTO options (id, invocation_id, kind, keyval) VALUES %s`,
			valuesPlaceholders(s, len(rows), 4))
		args := make([]interface{}, 0, len(rows)*4)
		for _, r := range rows {
			args = append(args, r.id, invID, r.kind, r.keyval)
		}
		_, err := s.db.ExecContext(ctx, query, args...)
		return wrapErr(err)
	})
}

func valuesPlaceholders(s *sqlStore, rows, cols int) string {
	groups := make([]string, rows)
	n := 1
	for i := 0; i < rows; i++ {
		groups[i] = "(" + s.phList(n, cols) + ")"
		n += cols
	}
	return strings.Join(groups, ", ")
}

func (s *sqlStore) GetOptions(ctx context.Context, invID string) (BuildOptions, error) {
	return dbexec.Run(ctx, func(ctx context.Context) (BuildOptions, error) {
		opts := NewBuildOptions()
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT kind, keyval FROM options WHERE invocation_id = %s ORDER BY id ASC`, s.ph(1)), invID)
		if err != nil {
			return opts, wrapErr(err)
		}
		defer rows.Close()

		for rows.Next() {
			var kind, keyval string
			if err := rows.Scan(&kind, &keyval); err != nil {
				return opts, wrapErr(err)
			}
			switch kind {
			case "Unstructured":
				opts.Unstructured = append(opts.Unstructured, keyval)
			case "Startup":
				opts.Startup = append(opts.Startup, keyval)
			case "Explicit Startup":
				opts.ExplicitStartup = append(opts.ExplicitStartup, keyval)
			case "Command Line":
				opts.CmdLine = append(opts.CmdLine, keyval)
			case "Explicit Command Line":
				opts.ExplicitCmdLine = append(opts.ExplicitCmdLine, keyval)
			case "Build Metadata":
				k, v, found := strings.Cut(keyval, "=")
				if found {
					opts.BuildMetadata[k] = v
				}
			default:
				opts.Structured[kind] = append(opts.Structured[kind], keyval)
			}
		}
		return opts, nil
	})
}

func (s *sqlStore) InsertOutputLines(ctx context.Context, invID string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		query := fmt.Sprintf(`INSERT INTO invocationoutput (invocation_id, line) VALUES %s`,
			valuesPlaceholders(s, len(lines), 2))
		args := make([]interface{}, 0, len(lines)*2)
		for _, l := range lines {
			args = append(args, invID, l)
		}
		_, err := s.db.ExecContext(ctx, query, args...)
		return wrapErr(err)
	})
}

// DeleteLastOutputLines deletes the n oldest rows, not the newest — the name
// contradicts the behavior; preserved verbatim per the design notes.
func (s *sqlStore) DeleteLastOutputLines(ctx context.Context, invID string, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := dbexec.Group(ctx, func(ctx context.Context) (struct{}, error) {
		selectQuery := fmt.Sprintf(
			`SELECT id FROM invocationoutput WHERE invocation_id = %s ORDER BY id ASC LIMIT %s`, s.ph(1), s.ph(2))
		rows, err := s.db.QueryContext(ctx, selectQuery, invID, n)
		if err != nil {
			return struct{}{}, wrapErr(err)
		}
		var ids []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return struct{}{}, wrapErr(err)
			}
			ids = append(ids, id)
		}
		rows.Close()
		if len(ids) == 0 {
			return struct{}{}, nil
		}

		placeholders := make([]string, len(ids))
		args := make([]interface{}, len(ids))
		for i, id := range ids {
			placeholders[i] = s.ph(i + 1)
			args[i] = id
		}
		delQuery := fmt.Sprintf(`DELETE FROM invocationoutput WHERE id IN (%s)`, strings.Join(placeholders, ", "))
		_, err = s.db.ExecContext(ctx, delQuery, args...)
		return struct{}{}, wrapErr(err)
	})
	return err
}

func (s *sqlStore) GetProgress(ctx context.Context, invID string) (string, error) {
	return dbexec.Run(ctx, func(ctx context.Context) (string, error) {
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT line FROM invocationoutput WHERE invocation_id = %s ORDER BY id ASC`, s.ph(1)), invID)
		if err != nil {
			return "", wrapErr(err)
		}
		defer rows.Close()

		var lines []string
		for rows.Next() {
			var l string
			if err := rows.Scan(&l); err != nil {
				return "", wrapErr(err)
			}
			lines = append(lines, l)
		}
		return strings.Join(lines, "\n"), nil
	})
}

func (s *sqlStore) UpdateInvocationHeartbeat(ctx context.Context, invID string) error {
	return dbexec.RunErr(ctx, func(ctx context.Context) error {
		query := fmt.Sprintf(`UPDATE invocations SET last_heartbeat = %s WHERE id = %s`, s.ph(1), s.ph(2))
		_, err := s.db.ExecContext(ctx, query, time.Now().UTC(), invID)
		return wrapErr(err)
	})
}

func (s *sqlStore) GetTestHistory(ctx context.Context, name string, filter TestHistoryFilter, limit int) (TestHistory, error) {
	return dbexec.Run(ctx, func(ctx context.Context) (TestHistory, error) {
		var history TestHistory

		query := `SELECT i.id, t.status, t.duration_s, t."end" FROM tests t
			JOIN invocations i ON i.id = t.invocation_id`
		args := []interface{}{}
		conditions := []string{fmt.Sprintf("t.name = %s", s.ph(1))}
		args = append(args, name)

		if filter.MetadataKey != "" {
			conditions = append(conditions, fmt.Sprintf(
				`EXISTS (SELECT 1 FROM options o WHERE o.invocation_id = i.id AND o.kind = 'Build Metadata' AND o.keyval = %s)`,
				s.ph(len(args)+1)))
			args = append(args, filter.MetadataKey+"="+filter.MetadataValue)
		}

		query += " WHERE " + strings.Join(conditions, " AND ")
		query += fmt.Sprintf(` ORDER BY t."end" DESC LIMIT %s`, s.ph(len(args)+1))
		args = append(args, limit+1)

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return history, wrapErr(err)
		}
		defer rows.Close()

		for rows.Next() {
			var p TestHistoryPoint
			var status string
			var durationS sql.NullFloat64
			if err := rows.Scan(&p.InvocationID, &status, &durationS, &p.End); err != nil {
				return history, wrapErr(err)
			}
			p.Status = ParseStatus(status)
			if durationS.Valid {
				p.Duration = time.Duration(durationS.Float64 * float64(time.Second))
			}
			history.Points = append(history.Points, p)
		}

		if len(history.Points) > limit {
			history.Points = history.Points[:limit]
			history.Truncated = true
		}
		return history, nil
	})
}
