package postgres

import (
	"context"
	"testing"

	"ticket-box-office/internal/core/domain"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocationRows(bag domain.ItemBag) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"item_class", "remaining"})
	for _, class := range bag.Classes() {
		rows.AddRow(class, bag[class])
	}
	return rows
}

func TestAllocationRepo_Seed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAllocationRepo(mock)

	// Classes insert in sorted order.
	mock.ExpectExec("INSERT INTO ticket_allocation").
		WithArgs("balcony", int64(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO ticket_allocation").
		WithArgs("frontRow", int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0)) // already present

	err = repo.Seed(context.Background(), domain.ItemBag{"frontRow": 3, "balcony": 5})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAllocationRepo(mock)
	bag := domain.ItemBag{"frontRow": 2, "balcony": 5}

	mock.ExpectQuery("SELECT item_class, remaining FROM ticket_allocation").
		WillReturnRows(allocationRows(bag))

	result, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bag, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_GetForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAllocationRepo(mock)
	bag := domain.ItemBag{"frontRow": 3}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT item_class, remaining FROM ticket_allocation ORDER BY item_class FOR UPDATE").
		WillReturnRows(allocationRows(bag))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetForUpdate(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, bag, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_Subtract(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAllocationRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE ticket_allocation SET remaining").
		WithArgs(int64(2), "frontRow").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Subtract(context.Background(), tx, domain.ItemBag{"frontRow": 2})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_Subtract_Underflow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAllocationRepo(mock)

	mock.ExpectBegin()
	// The guarded UPDATE matches no row when remaining < requested.
	mock.ExpectExec("UPDATE ticket_allocation SET remaining").
		WithArgs(int64(4), "frontRow").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Subtract(context.Background(), tx, domain.ItemBag{"frontRow": 4})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "underflow")
	assert.NoError(t, mock.ExpectationsWereMet())
}
