package database

import (
	"context"
	"testing"

	"github.com/helixml/pulse/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
	Size int
}

func (widgetModel) TableName() string { return "widgets" }

type widget struct {
	id   int64
	name string
	size int
}

type widgetMapper struct{}

func (widgetMapper) ToDomain(e widgetModel) widget { return widget{id: e.ID, name: e.Name, size: e.Size} }
func (widgetMapper) ToModel(d widget) widgetModel {
	return widgetModel{ID: d.id, Name: d.name, Size: d.size}
}

func widgetRepo(t *testing.T) Repository[widget, widgetModel] {
	t.Helper()
	db := openSQLite(t)
	require.NoError(t, db.GORM().AutoMigrate(&widgetModel{}))
	ctx := context.Background()
	for _, w := range []widgetModel{{Name: "a", Size: 1}, {Name: "b", Size: 2}, {Name: "c", Size: 2}} {
		require.NoError(t, db.Session(ctx).Create(&w).Error)
	}
	return NewRepository[widget, widgetModel](db, widgetMapper{}, "widget")
}

func TestRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := widgetRepo(t)

	found, err := repo.Find(ctx, repository.WithCondition("size", 2), repository.WithOrderDesc("name"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "c", found[0].name)
	assert.Equal(t, "b", found[1].name)
}

func TestRepository_FindOne_NotFound(t *testing.T) {
	repo := widgetRepo(t)

	_, err := repo.FindOne(context.Background(), repository.WithCondition("name", "zzz"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_CountAndExists(t *testing.T) {
	ctx := context.Background()
	repo := widgetRepo(t)

	n, err := repo.Count(ctx, repository.WithCondition("size", 2), repository.WithLimit(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ok, err := repo.Exists(ctx, repository.WithCondition("name", "q"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_DeleteBy(t *testing.T) {
	ctx := context.Background()
	repo := widgetRepo(t)

	require.Error(t, repo.DeleteBy(ctx))
	require.NoError(t, repo.DeleteBy(ctx, repository.WithCondition("size", 2)))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
