package modkit

import (
	"context"
	"testing"

	"chatclean/internal/platform/config"
	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/objstore"
)

func TestDBFromConfig_Defaults(t *testing.T) {
	t.Setenv("PG_DBURL", "")
	t.Setenv("PG_MAX_CONNS", "")
	db := DBFromConfig(config.New())
	if db.URL != "" || db.MaxConns != 4 || db.SlowMs != 500 {
		t.Fatalf("defaults = %+v", db)
	}
}

func TestOpen_MemWithoutDB(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mem")
	t.Setenv("PG_DBURL", "")
	deps, err := Open(context.Background(), config.New())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer deps.Close()
	if _, ok := deps.Store.(*objstore.Mem); !ok {
		t.Fatalf("store = %T, want *objstore.Mem", deps.Store)
	}
	if deps.PG != nil {
		t.Fatalf("PG should be nil without PG_DBURL")
	}
}

func TestOpen_InvalidOptions(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "local")
		t.Setenv("STORE_ROOT", "")
		if _, err := Open(context.Background(), config.New()); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})
	t.Run("db url", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mem")
		t.Setenv("PG_DBURL", "not a url")
		if _, err := Open(context.Background(), config.New()); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})
}
