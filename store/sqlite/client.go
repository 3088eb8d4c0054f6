package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/99nil/ksuid"
	"github.com/99nil/ksuid/store"
)

type Config struct {
	Path string `json:"path"`
}

// Client is a SQLite-backed store.Interface. Keys are persisted in their
// canonical 27-character string form, so ORDER BY on the uid column yields
// records in generation order.
type Client struct {
	db *sql.DB
}

const recordTable = "records"

func New(cfg *Config) (*Client, error) {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (`uid` VARCHAR(27) PRIMARY KEY, `value` BLOB)",
			recordTable)); err != nil {
		return nil, err
	}
	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) List(ctx context.Context) ([]store.KV, error) {
	rows, err := c.db.QueryContext(ctx,
		fmt.Sprintf("SELECT `uid`, `value` FROM %s ORDER BY `uid`", recordTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []store.KV
	for rows.Next() {
		var id ksuid.KSUID
		var value []byte
		if err := rows.Scan(&id, &value); err != nil {
			return nil, err
		}
		res = append(res, store.KV{Key: id.Bytes(), Value: value})
	}
	return res, rows.Err()
}

func (c *Client) Get(ctx context.Context, key []byte) ([]byte, error) {
	id, err := ksuid.FromBytes(key)
	if err != nil {
		return nil, err
	}
	var res []byte
	err = c.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT `value` FROM %s WHERE `uid`=?", recordTable), id).Scan(&res)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Set(ctx context.Context, key, value []byte) error {
	id, err := ksuid.FromBytes(key)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		fmt.Sprintf("INSERT OR REPLACE INTO %s VALUES (?, ?)", recordTable), id, value)
	return err
}

func (c *Client) Delete(ctx context.Context, key []byte) error {
	id, err := ksuid.FromBytes(key)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE `uid`=?", recordTable), id)
	return err
}
