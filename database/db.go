package database

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/advisor/shared"
	"github.com/google/uuid"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createSignalTableSQL = "CREATE TABLE IF NOT EXISTS signal (id TEXT PRIMARY KEY, symbol TEXT, kind TEXT, confidence REAL, entry REAL, stoploss REAL, takeprofit REAL, riskreward REAL, indicators TEXT, reasoning TEXT, createdon INTEGER)"
	createMetadataSQL    = "CREATE TABLE IF NOT EXISTS metadata (id TEXT PRIMARY KEY, total INTEGER, buys INTEGER, sells INTEGER, holds INTEGER, createdon INTEGER)"
	persistSignalSQL     = "INSERT INTO signal(id, symbol, kind, confidence, entry, stoploss, takeprofit, riskreward, indicators, reasoning, createdon) VALUES(?,?,?,?,?,?,?,?,?,?,?)"
	findMetadataSQL      = "SELECT * FROM metadata WHERE id = ?"
	updateMetadataSQL    = "UPDATE metadata SET total = total + 1, buys = buys + ?, sells = sells + ?, holds = holds + ? WHERE id = ?"
	persistMetadataSQL   = "INSERT INTO metadata(id, total, buys, sells, holds, createdon) VALUES(?,?,?,?,?,?)"
)

// SignalStorer defines the requirements for storing trade signals.
type SignalStorer interface {
	// PersistSignal stores the provided trade signal to the database.
	PersistSignal(ctx context.Context, signal *shared.TradeSignal) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the SignalStorer interface.
var _ SignalStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createSignalTableSQL},
		{SQL: createMetadataSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// generateMetadataID generates deterministic ids for metadata using the
// current month, week and symbol.
func generateMetadataID(currentTime time.Time, symbol string) string {
	month := currentTime.Month().String()
	week := currentTime.Day() / 7

	id := fmt.Sprintf("%s-Week-%d-%s", month, week, symbol)
	return id
}

// nullableFloat adapts an optional float for use as a sql parameter.
func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}

	return *v
}

// PersistSignal stores the provided trade signal to the database.
func (db *Database) PersistSignal(ctx context.Context, signal *shared.TradeSignal) error {
	if signal.Type != shared.Hold && (signal.StopLoss == nil || signal.TakeProfit == nil) {
		db.cfg.Logger.Error().Msgf("unexpected actionable signal without risk levels: %s",
			spew.Sdump(signal))
	}

	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: persistSignalSQL,
			PositionalParams: []any{uuid.New().String(), signal.Symbol, signal.Type.String(),
				signal.Confidence, signal.Entry, nullableFloat(signal.StopLoss),
				nullableFloat(signal.TakeProfit), nullableFloat(signal.RiskReward),
				strings.Join(signal.IndicatorsUsed, ","), signal.Reasoning,
				signal.CreatedOn.Unix()},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	var buys, sells, holds int
	switch signal.Type {
	case shared.Buy:
		buys++
	case shared.Sell:
		sells++
	case shared.Hold:
		holds++
	}

	id := generateMetadataID(signal.CreatedOn, signal.Symbol)
	resp, err := db.client.QuerySingle(ctx, findMetadataSQL, id)
	if err != nil {
		return err
	}

	exists := len(resp.GetQueryResultsAssoc()) > 0
	switch {
	case exists:
		resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              updateMetadataSQL,
				PositionalParams: []any{buys, sells, holds, id},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("updating metadata %s: %d -> %s", id, idx, errStr)
		}
	default:
		resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              persistMetadataSQL,
				PositionalParams: []any{id, 1, buys, sells, holds, signal.CreatedOn.Unix()},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("persisting metadata %s: %d -> %s", id, idx, errStr)
		}
	}

	return nil
}
