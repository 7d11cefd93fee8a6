package cache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-dms/internal/shared/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type fixture struct {
	Name string `json:"name"`
}

func TestKeyString_FiltersAreOrderIndependent(t *testing.T) {
	a := cache.NewKey("vehicles", map[string]string{"status": "IN_STOCK", "make": "Toyota"})
	b := cache.NewKey("vehicles", map[string]string{"make": "Toyota", "status": "IN_STOCK"})
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "dms:vehicles:make=Toyota,status=IN_STOCK", a.String())
}

func TestGet_Miss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.New(rdb, time.Minute)

	key := cache.NewKey("employees", nil)
	mock.ExpectGet(key.String()).RedisNil()

	var dest fixture
	err := c.Get(context.Background(), key, &dest)
	assert.ErrorIs(t, err, cache.ErrMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetThenGet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.New(rdb, time.Minute)

	key := cache.NewKey("employees", map[string]string{"id": "42"})
	payload, _ := json.Marshal(fixture{Name: "Somsak"})

	mock.ExpectTxPipeline()
	mock.ExpectSet(key.String(), payload, time.Minute).SetVal("OK")
	mock.ExpectSAdd("dms:keys:employees", key.String()).SetVal(1)
	mock.ExpectExpire("dms:keys:employees", 2*time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	err := c.Set(context.Background(), key, fixture{Name: "Somsak"})
	assert.NoError(t, err)

	mock.ExpectGet(key.String()).SetVal(string(payload))

	var dest fixture
	err = c.Get(context.Background(), key, &dest)
	assert.NoError(t, err)
	assert.Equal(t, "Somsak", dest.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate_DropsRegisteredKeys(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.New(rdb, time.Minute)

	mock.ExpectSMembers("dms:keys:vehicles").SetVal([]string{"dms:vehicles", "dms:vehicles:id=1"})
	mock.ExpectTxPipeline()
	mock.ExpectDel("dms:vehicles", "dms:vehicles:id=1").SetVal(2)
	mock.ExpectDel("dms:keys:vehicles").SetVal(1)
	mock.ExpectTxPipelineExec()

	err := c.Invalidate(context.Background(), "vehicles")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate_EmptySetIsNoop(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := cache.New(rdb, time.Minute)

	mock.ExpectSMembers("dms:keys:payrolls").SetVal([]string{})

	err := c.Invalidate(context.Background(), "payrolls")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
