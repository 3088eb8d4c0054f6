package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/sirupsen/logrus"

	"github.com/99nil/ksuid/store"
)

type Config struct {
	Path string `json:"path"`
}

// Client is a Badger-backed store.Interface. Records are keyed by the raw
// identifier buffer, so Badger's key order is generation order.
type Client struct {
	db *badger.DB
}

func New(cfg *Config) (*Client, error) {
	options := badger.DefaultOptions(cfg.Path)
	options.Logger = nil
	options.BypassLockGuard = true
	db, err := badger.Open(options)
	if err != nil {
		return nil, err
	}
	client := &Client{db: db}
	client.GC()
	return client, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) GC() {
	go func() {
		logrus.Println("Badger ValueLogGC Start.")
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			<-ticker.C
			for {
				if c.db == nil || c.db.IsClosed() {
					logrus.Errorln("Badger ValueLogGC Shutdown. DB is nil or closed.")
					return
				}
				if err := c.db.RunValueLogGC(0.7); err != nil {
					logrus.Debugln(fmt.Sprintf("Badger ValueLogGC Failed. err: %s", err))
					break
				}
			}
			logrus.Debugln("Badger ValueLogGC Completed.")
		}
	}()
}

func (c *Client) List(ctx context.Context) ([]store.KV, error) {
	var res []store.KV
	err := c.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		iter := txn.NewIterator(options)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			res = append(res, store.KV{
				Key:   item.KeyCopy(nil),
				Value: value,
			})
		}
		return nil
	})
	return res, err
}

func (c *Client) Get(ctx context.Context, key []byte) ([]byte, error) {
	var res []byte
	err := c.db.View(func(txn *badger.Txn) error {
		val, err := txn.Get(key)
		if err != nil {
			return err
		}
		res, err = val.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	return res, err
}

func (c *Client) Set(ctx context.Context, key, value []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (c *Client) Delete(ctx context.Context, key []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}
