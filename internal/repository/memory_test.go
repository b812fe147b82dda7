package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBooking(t *testing.T, store *MemoryStore, itemID, bookerID int64, start, end time.Time, status string) *models.Booking {
	t.Helper()
	b := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	require.NoError(t, store.SaveBooking(context.Background(), b))
	return b
}

func TestMemoryStoreBookingCRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("SaveAssignsIncreasingIDs", func(t *testing.T) {
		first := seedBooking(t, store, 1, 2, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)
		second := seedBooking(t, store, 1, 2, now.Add(3*time.Hour), now.Add(4*time.Hour), models.StatusWaiting)
		assert.Equal(t, first.ID+1, second.ID)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("SaveRejectsPresetID", func(t *testing.T) {
		err := store.SaveBooking(ctx, &models.Booking{ID: 99, ItemID: 1, BookerID: 2})
		assert.Error(t, err)
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		b := seedBooking(t, store, 1, 2, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)
		got, err := store.GetBooking(ctx, b.ID)
		require.NoError(t, err)

		got.Status = models.StatusApproved
		again, err := store.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaiting, again.Status)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.GetBooking(ctx, 100500)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		err := store.UpdateBooking(ctx, &models.Booking{ID: 100500})
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestMemoryStoreConcurrentSave(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			b := &models.Booking{ItemID: 1, BookerID: 2, Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), Status: models.StatusWaiting}
			assert.NoError(t, store.SaveBooking(ctx, b))
		}()
	}
	wg.Wait()

	all, err := store.AllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)

	seen := make(map[int64]bool, n)
	for _, b := range all {
		assert.False(t, seen[b.ID], "duplicate id %d", b.ID)
		seen[b.ID] = true
	}
}

func TestMemoryStoreListBookingsByBooker(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// Three bookings for booker 7: past, current, future (by start asc).
	past := seedBooking(t, store, 1, 7, now.Add(-4*time.Hour), now.Add(-2*time.Hour), models.StatusApproved)
	current := seedBooking(t, store, 1, 7, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	future := seedBooking(t, store, 1, 7, now.Add(2*time.Hour), now.Add(4*time.Hour), models.StatusWaiting)
	// Noise from another booker.
	seedBooking(t, store, 1, 8, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

	t.Run("AllSortedByStartDesc", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, models.FilterAll, now, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, future.ID, got[0].ID)
		assert.Equal(t, current.ID, got[1].ID)
		assert.Equal(t, past.ID, got[2].ID)
	})

	t.Run("TemporalFiltersAreDisjoint", func(t *testing.T) {
		cur, err := store.ListBookingsByBooker(ctx, 7, models.FilterCurrent, now, 0, 10)
		require.NoError(t, err)
		require.Len(t, cur, 1)
		assert.Equal(t, current.ID, cur[0].ID)

		pst, err := store.ListBookingsByBooker(ctx, 7, models.FilterPast, now, 0, 10)
		require.NoError(t, err)
		require.Len(t, pst, 1)
		assert.Equal(t, past.ID, pst[0].ID)

		fut, err := store.ListBookingsByBooker(ctx, 7, models.FilterFuture, now, 0, 10)
		require.NoError(t, err)
		require.Len(t, fut, 1)
		assert.Equal(t, future.ID, fut[0].ID)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, models.StatusWaiting, now, 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, future.ID, got[0].ID)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, "current", now, 0, 10)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("UnknownTokenMatchesNothing", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, "BOGUS", now, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("BoundaryInstantExcludedEverywhere", func(t *testing.T) {
		edge := seedBooking(t, store, 1, 9, now, now.Add(time.Hour), models.StatusWaiting)
		for _, state := range []string{models.FilterCurrent, models.FilterPast, models.FilterFuture} {
			got, err := store.ListBookingsByBooker(ctx, 9, state, now, 0, 10)
			require.NoError(t, err)
			assert.Empty(t, got, "state %s must not contain booking %d", state, edge.ID)
		}
	})
}

func TestMemoryStorePagination(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	ids := make([]int64, 0, 5)
	for i := 1; i <= 5; i++ {
		b := seedBooking(t, store, 1, 7, now.Add(time.Duration(i)*time.Hour), now.Add(time.Duration(i+1)*time.Hour), models.StatusWaiting)
		ids = append(ids, b.ID)
	}

	t.Run("Window", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, models.FilterAll, now, 1, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Descending by start: ids[4], ids[3], ids[2], ...
		assert.Equal(t, ids[3], got[0].ID)
		assert.Equal(t, ids[2], got[1].ID)
	})

	t.Run("TailClamped", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, models.FilterAll, now, 4, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ids[0], got[0].ID)
	})

	t.Run("BeyondEndIsEmpty", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, models.FilterAll, now, 50, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ZeroSizeIsEmpty", func(t *testing.T) {
		got, err := store.ListBookingsByBooker(ctx, 7, models.FilterAll, now, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryStoreListBookingsByOwner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	ownedItem := &models.Item{OwnerID: 1, Name: "drill", Available: true}
	require.NoError(t, store.CreateItem(ctx, ownedItem))
	otherItem := &models.Item{OwnerID: 2, Name: "saw", Available: true}
	require.NoError(t, store.CreateItem(ctx, otherItem))

	mine := seedBooking(t, store, ownedItem.ID, 7, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)
	seedBooking(t, store, otherItem.ID, 7, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

	got, err := store.ListBookingsByOwner(ctx, 1, models.FilterAll, now, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	t.Run("OwnershipFollowsItemTransfer", func(t *testing.T) {
		// Owner resolution is live: reassigning the item moves its
		// bookings to the new owner's listing.
		newOwner := int64(3)
		store.mu.Lock()
		store.items[ownedItem.ID].OwnerID = newOwner
		store.mu.Unlock()

		got, err := store.ListBookingsByOwner(ctx, 1, models.FilterAll, now, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = store.ListBookingsByOwner(ctx, newOwner, models.FilterAll, now, 0, 10)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestMemoryStoreUsers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		user := &models.User{Name: "Alice", Email: "alice@example.com"}
		require.NoError(t, store.CreateUser(ctx, user))
		assert.NotZero(t, user.ID)

		got, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Name: "Other", Email: "alice@example.com"})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		user := &models.User{Name: "Bob", Email: "bob@example.com"}
		require.NoError(t, store.CreateUser(ctx, user))

		newName := "Robert"
		got, err := store.UpdateUser(ctx, user.ID, models.UserUpdate{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Robert", got.Name)
		assert.Equal(t, "bob@example.com", got.Email)
	})

	t.Run("UpdateToTakenEmail", func(t *testing.T) {
		user := &models.User{Name: "Carol", Email: "carol@example.com"}
		require.NoError(t, store.CreateUser(ctx, user))

		taken := "alice@example.com"
		_, err := store.UpdateUser(ctx, user.ID, models.UserUpdate{Email: &taken})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("DeleteFreesEmail", func(t *testing.T) {
		user := &models.User{Name: "Dave", Email: "dave@example.com"}
		require.NoError(t, store.CreateUser(ctx, user))
		require.NoError(t, store.DeleteUser(ctx, user.ID))

		_, err := store.GetUser(ctx, user.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		assert.NoError(t, store.CreateUser(ctx, &models.User{Name: "Dave II", Email: "dave@example.com"}))
	})
}

func TestMemoryStoreItemsAndRequests(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("ItemPartialUpdate", func(t *testing.T) {
		item := &models.Item{OwnerID: 1, Name: "drill", Description: "18V", Available: true}
		require.NoError(t, store.CreateItem(ctx, item))

		available := false
		got, err := store.UpdateItem(ctx, item.ID, models.ItemUpdate{Available: &available})
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, "drill", got.Name)
	})

	t.Run("ListItemsByOwner", func(t *testing.T) {
		require.NoError(t, store.CreateItem(ctx, &models.Item{OwnerID: 5, Name: "a"}))
		require.NoError(t, store.CreateItem(ctx, &models.Item{OwnerID: 5, Name: "b"}))
		require.NoError(t, store.CreateItem(ctx, &models.Item{OwnerID: 6, Name: "c"}))

		items, err := store.ListItemsByOwner(ctx, 5)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("RequestsNewestFirst", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, store.CreateRequest(ctx, &models.ItemRequest{
				RequesterID: 5,
				Description: fmt.Sprintf("need thing %d", i),
			}))
		}

		requests, err := store.ListRequestsByRequester(ctx, 5)
		require.NoError(t, err)
		require.Len(t, requests, 3)
		assert.GreaterOrEqual(t, requests[0].ID, requests[1].ID)
		assert.GreaterOrEqual(t, requests[1].ID, requests[2].ID)

		all, err := store.AllRequests(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}
