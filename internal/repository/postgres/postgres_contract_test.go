package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/pagedquery/internal/pagedquery"
	"github.com/maxviazov/pagedquery/internal/repository/contract"
)

var (
	pool       *pgxpool.Pool
	skipReason string
)

func TestMain(m *testing.M) {
	if os.Getenv("CONTRACT_TESTS") != "1" {
		skipReason = "set CONTRACT_TESTS=1 to run Postgres contract tests"
		os.Exit(m.Run())
	}

	dsn := buildDSNFromEnv()
	if dsn == "" {
		skipReason = "no Postgres DSN in environment"
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var err error
	pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgxpool: %v\n", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ping: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func skipIfNeeded(t *testing.T) {
	t.Helper()
	if skipReason != "" {
		t.Skip(skipReason)
	}
}

func buildDSNFromEnv() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	user := firstNonEmpty(os.Getenv("APP_POSTGRES_USER"), os.Getenv("POSTGRES_USER"))
	pass := firstNonEmpty(os.Getenv("APP_POSTGRES_PASSWORD"), os.Getenv("POSTGRES_PASSWORD"))
	host := firstNonEmpty(os.Getenv("APP_POSTGRES_HOST"), os.Getenv("POSTGRES_HOST"), "localhost")
	port := firstNonEmpty(os.Getenv("APP_POSTGRES_PORT"), os.Getenv("POSTGRES_PORT"), "5432")
	db := firstNonEmpty(os.Getenv("APP_POSTGRES_DB"), os.Getenv("POSTGRES_DB"))
	ssl := firstNonEmpty(os.Getenv("APP_POSTGRES_SSLMODE"), os.Getenv("POSTGRES_SSLMODE"), "disable")
	if user == "" || pass == "" || db == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, ssl)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func seed(t *testing.T) {
	t.Helper()
	for _, s := range contract.Seed() {
		if _, err := pool.Exec(context.Background(), s); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func makePaginate(t *testing.T) (contract.PaginateFunc, func()) {
	skipIfNeeded(t)
	seed(t)
	paginate := func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (*pagedquery.Page[int64], error) {
		return Paginate(ctx, nil, pool, pgx.RowTo[int64], q, req)
	}
	return paginate, func() {}
}

func makeTxPaginate(t *testing.T) (contract.PaginateFunc, func()) {
	skipIfNeeded(t)
	seed(t)
	tm := NewTxManager(pool)
	paginate := func(ctx context.Context, q pagedquery.Query, req pagedquery.Request) (page *pagedquery.Page[int64], err error) {
		err = tm.WithinTx(ctx, func(ctx context.Context) error {
			page, err = Paginate(ctx, nil, pool, pgx.RowTo[int64], q, req)
			return err
		})
		return page, err
	}
	return paginate, func() {}
}

func TestPaginate_PostgresContract(t *testing.T) {
	contract.RunPaginationContract(t, makePaginate, "$1")
}

func TestPaginate_PostgresTxContract(t *testing.T) {
	contract.RunPaginationContract(t, makeTxPaginate, "$1")
}
