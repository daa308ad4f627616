package service_test

import (
	"context"
	"sync"
	"testing"

	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) completed(t *testing.T) *domain.Booking {
	t.Helper()
	b := e.book(t, e.alice, at(10, 0))
	e.setStatus(t, b, domain.StatusCompleted)
	return b
}

func review(bookingID int64, rating int) service.CreateReviewInput {
	return service.CreateReviewInput{BookingID: bookingID, Rating: rating}
}

func TestCreateReview(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.completed(t)
	comment := "  Great cut  "

	r, err := e.reviews.Create(ctx, e.alice, service.CreateReviewInput{BookingID: b.ID, Rating: 5, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, b.ID, r.BookingID)
	assert.Equal(t, "Great cut", *r.Comment)

	_, err = e.reviews.Create(ctx, e.alice, review(b.ID, 4))
	assert.Equal(t, apperrors.KindConflict, kind(err), "one review per booking")
}

func TestCreateReview_Gating(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	done := e.completed(t)
	pending := e.book(t, e.alice, at(12, 0))
	confirmed := e.book(t, e.alice, at(14, 0))
	e.setStatus(t, confirmed, domain.StatusConfirmed)
	cancelled := e.book(t, e.alice, at(16, 0))
	e.setStatus(t, cancelled, domain.StatusCancelled)

	cases := []struct {
		name string
		who  string
		in   service.CreateReviewInput
		want apperrors.Kind
	}{
		{"missing booking", "alice", review(999, 5), apperrors.KindNotFound},
		{"not the owner", "bob", review(done.ID, 5), apperrors.KindForbidden},
		{"admin is not the owner", "admin", review(done.ID, 5), apperrors.KindForbidden},
		{"pending", "alice", review(pending.ID, 5), apperrors.KindInvalidState},
		{"confirmed", "alice", review(confirmed.ID, 5), apperrors.KindInvalidState},
		{"cancelled", "alice", review(cancelled.ID, 5), apperrors.KindInvalidState},
		{"rating too low", "alice", review(done.ID, 0), apperrors.KindValidation},
		{"rating too high", "alice", review(done.ID, 6), apperrors.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			caller := e.alice
			switch tc.who {
			case "bob":
				caller = e.bob
			case "admin":
				caller = e.admin
			}
			_, err := e.reviews.Create(ctx, caller, tc.in)
			assert.Equal(t, tc.want, kind(err))
		})
	}
}

func TestCreateReview_Concurrent(t *testing.T) {
	e := newEnv(t)
	b := e.completed(t)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := e.reviews.Create(context.Background(), e.alice, review(b.ID, rating))
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i%5 + 1)
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
}

func TestUpdateAndDeleteReview(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.completed(t)
	r, err := e.reviews.Create(ctx, e.alice, review(b.ID, 3))
	require.NoError(t, err)

	four := 4
	_, err = e.reviews.Update(ctx, e.bob, r.ID, domain.ReviewPatch{Rating: &four})
	assert.Equal(t, apperrors.KindForbidden, kind(err))

	got, err := e.reviews.Update(ctx, e.alice, r.ID, domain.ReviewPatch{Rating: &four})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)

	nope := 9
	_, err = e.reviews.Update(ctx, e.alice, r.ID, domain.ReviewPatch{Rating: &nope})
	assert.Equal(t, apperrors.KindValidation, kind(err))

	note := "edited by staff"
	got, err = e.reviews.Update(ctx, e.admin, r.ID, domain.ReviewPatch{Comment: &note})
	require.NoError(t, err)
	assert.Equal(t, note, *got.Comment)
	assert.Equal(t, 4, got.Rating)

	assert.Equal(t, apperrors.KindForbidden, kind(e.reviews.Delete(ctx, e.bob, r.ID)))
	require.NoError(t, e.reviews.Delete(ctx, e.alice, r.ID))
	assert.Equal(t, apperrors.KindNotFound, kind(e.reviews.Delete(ctx, e.admin, r.ID)))

	// the booking can be reviewed again once the old review is gone
	_, err = e.reviews.Create(ctx, e.alice, review(b.ID, 5))
	assert.NoError(t, err)
}

func TestListReviewsForService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	b := e.completed(t)
	_, err := e.reviews.Create(ctx, e.alice, review(b.ID, 5))
	require.NoError(t, err)

	list, err := e.reviews.ListForService(ctx, e.haircut.ID, service.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	other := e.addService(t, "Massage", 30, true)
	list, err = e.reviews.ListForService(ctx, other.ID, service.Page{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	assert.NotNil(t, list.Items)
}
