package database

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Statements returns the schema for driver split into single statements.
func Statements(driver string) ([]string, error) {
	body, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema for driver %q: %w", driver, err)
	}

	var stmts []string
	for _, part := range strings.Split(string(body), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts, nil
}

// ApplySchema runs every schema statement. A failing statement is logged and
// skipped so one bad statement never aborts the rest of the run.
func ApplySchema(ctx context.Context, db *sqlx.DB, driver string, log logger.ZapLogger) (applied, skipped int, err error) {
	stmts, err := Statements(driver)
	if err != nil {
		return 0, 0, err
	}

	for _, stmt := range stmts {
		if _, execErr := db.ExecContext(ctx, stmt); execErr != nil {
			skipped++
			log.Warn("Skipping schema statement",
				zap.String("statement", firstLine(stmt)),
				zap.Error(execErr),
			)
			continue
		}
		applied++
	}

	log.Info("Schema applied", zap.Int("applied", applied), zap.Int("skipped", skipped))
	return applied, skipped, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
