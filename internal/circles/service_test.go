package circles

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/models"
	"github.com/mmynk/circles/internal/storage/sqlstore"
)

type fixture struct {
	svc   *Service
	store *sqlstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlstore.New(context.Background(), "sqlite", filepath.Join(t.TempDir(), "circles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &fixture{svc: NewService(store, DefaultCircleQuota), store: store}
}

func (f *fixture) user(t *testing.T, email string) auth.Identity {
	t.Helper()

	u := models.NewUser(email, "First", "Last", "hash")
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return auth.Identity{UserID: u.ID, UID: u.UID, Email: u.Email}
}

func TestCanCreateCircle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")

	for owned := 0; owned < DefaultCircleQuota; owned++ {
		require.NoError(t, f.svc.CanCreateCircle(ctx, owner.UserID), "owner with %d circles", owned)
		_, err := f.svc.CreateCircle(ctx, owner, "Circle")
		require.NoError(t, err)
	}

	err := f.svc.CanCreateCircle(ctx, owner.UserID)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.True(t, IsDenial(err))
	assert.Equal(t, "circle quota exceeded", err.Error())
}

func TestScenario_QuotaAndMembershipScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "o@example.com")
	member := f.user(t, "m@example.com")

	teamA, err := f.svc.CreateCircle(ctx, owner, "Team A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), teamA.ID)

	teamB, err := f.svc.CreateCircle(ctx, owner, "Team B")
	require.NoError(t, err)
	assert.Equal(t, int64(2), teamB.ID)

	_, err = f.svc.CreateCircle(ctx, owner, "Team C")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	_, err = f.svc.AddMember(ctx, owner, teamA.ID, member.Email)
	require.NoError(t, err)

	bill, err := f.svc.AddBill(ctx, owner, NewBill{
		CircleID: teamA.ID, Name: "Groceries", Amount: 42.5, CategoryID: 1, BillDate: "2024-05-01",
	})
	require.NoError(t, err)
	assert.NotZero(t, bill.ID)

	bills, err := f.svc.ListBills(ctx, member.UserID, teamA.ID)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, bill.ID, bills[0].ID)
	assert.Equal(t, owner.UID, bills[0].UserUID)

	bills, err = f.svc.ListBills(ctx, member.UserID, teamB.ID)
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestCreateCircle_ConcurrentRequestsRespectQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "racer@example.com")

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		denied    int
		otherErrs []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateCircle(ctx, owner, "Race")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrQuotaExceeded):
				denied++
			default:
				otherErrs = append(otherErrs, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, otherErrs)
	assert.Equal(t, DefaultCircleQuota, created)
	assert.Equal(t, attempts-DefaultCircleQuota, denied)

	count, err := f.store.CountOwnedCircles(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, DefaultCircleQuota, count)
}

func TestListCirclesForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	loner := f.user(t, "loner@example.com")

	_, err := f.svc.ListCirclesForUser(ctx, loner.UserID)
	assert.ErrorIs(t, err, ErrNotFound)

	circle, err := f.svc.CreateCircle(ctx, owner, "Flat")
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, owner, circle.ID, loner.Email)
	require.NoError(t, err)

	circles, err := f.svc.ListCirclesForUser(ctx, loner.UserID)
	require.NoError(t, err)
	require.Len(t, circles, 1)
	assert.Equal(t, "Flat", circles[0].CircleName)
	assert.False(t, circles[0].IsOwner)
	assert.NotNil(t, circles[0].JoinedAt)

	circles, err = f.svc.ListCirclesForUser(ctx, owner.UserID)
	require.NoError(t, err)
	require.Len(t, circles, 1)
	assert.True(t, circles[0].IsOwner)
	assert.Nil(t, circles[0].JoinedAt)
}

func TestAddMember_Denials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	member := f.user(t, "member@example.com")
	other := f.user(t, "other@example.com")

	circle, err := f.svc.CreateCircle(ctx, owner, "Flat")
	require.NoError(t, err)
	added, err := f.svc.AddMember(ctx, owner, circle.ID, member.Email)
	require.NoError(t, err)
	assert.Equal(t, member.UID, added.UID)
	assert.False(t, added.IsOwner)
	require.NotNil(t, added.JoinedAt)

	_, err = f.svc.AddMember(ctx, member, circle.ID, other.Email)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.AddMember(ctx, owner, circle.ID, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.AddMember(ctx, owner, circle.ID, member.Email)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	members, err := f.svc.ListMembers(ctx, member.UserID, circle.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = f.svc.ListMembers(ctx, other.UserID, circle.ID)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestAddMember_NonOwnerSeesSameErrorForAnyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	member := f.user(t, "member@example.com")
	stranger := f.user(t, "stranger@example.com")
	registered := f.user(t, "registered@example.com")

	circle, err := f.svc.CreateCircle(ctx, owner, "Flat")
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, owner, circle.ID, member.Email)
	require.NoError(t, err)

	for _, who := range []auth.Identity{stranger, member} {
		_, knownErr := f.svc.AddMember(ctx, who, circle.ID, registered.Email)
		_, unknownErr := f.svc.AddMember(ctx, who, circle.ID, "nobody@example.com")

		assert.ErrorIs(t, knownErr, ErrNotOwner, "caller %s", who.Email)
		assert.ErrorIs(t, unknownErr, ErrNotOwner, "caller %s", who.Email)
		assert.Equal(t, knownErr.Error(), unknownErr.Error())
	}

	// Same for a circle that does not exist.
	_, knownErr := f.svc.AddMember(ctx, stranger, 999, registered.Email)
	_, unknownErr := f.svc.AddMember(ctx, stranger, 999, "nobody@example.com")
	assert.ErrorIs(t, knownErr, ErrNotOwner)
	assert.ErrorIs(t, unknownErr, ErrNotOwner)
}

func TestBills_MembershipRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	outsider := f.user(t, "outsider@example.com")

	first, err := f.svc.CreateCircle(ctx, owner, "First")
	require.NoError(t, err)
	second, err := f.svc.CreateCircle(ctx, owner, "Second")
	require.NoError(t, err)

	_, err = f.svc.AddBill(ctx, outsider, NewBill{CircleID: first.ID, Name: "Sneaky", Amount: 1, CategoryID: 1, BillDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrNotMember)

	elsewhere, err := f.svc.AddBill(ctx, owner, NewBill{CircleID: second.ID, Name: "Rent", Amount: 900, CategoryID: 2, BillDate: "2024-01-01"})
	require.NoError(t, err)

	t.Run("mismatched circle id removes nothing", func(t *testing.T) {
		removed, err := f.svc.RemoveBill(ctx, owner.UserID, elsewhere.ID, first.ID)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("outsider removes nothing", func(t *testing.T) {
		removed, err := f.svc.RemoveBill(ctx, outsider.UserID, elsewhere.ID, second.ID)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("outsider lists nothing", func(t *testing.T) {
		bills, err := f.svc.ListBills(ctx, outsider.UserID, second.ID)
		require.NoError(t, err)
		assert.Empty(t, bills)
	})

	t.Run("round trip ordering", func(t *testing.T) {
		older, err := f.svc.AddBill(ctx, owner, NewBill{CircleID: first.ID, Name: "Older", Amount: 5, CategoryID: 1, BillDate: "2024-01-01"})
		require.NoError(t, err)
		sameDay, err := f.svc.AddBill(ctx, owner, NewBill{CircleID: first.ID, Name: "Same day", Amount: 6, CategoryID: 1, BillDate: "2024-01-01"})
		require.NoError(t, err)
		latest, err := f.svc.AddBill(ctx, owner, NewBill{CircleID: first.ID, Name: "Latest", Amount: 7, CategoryID: 1, BillDate: "2024-06-01"})
		require.NoError(t, err)

		bills, err := f.svc.ListBills(ctx, owner.UserID, first.ID)
		require.NoError(t, err)
		require.Len(t, bills, 3)
		assert.Equal(t, latest.ID, bills[0].ID)
		assert.Equal(t, sameDay.ID, bills[1].ID)
		assert.Equal(t, older.ID, bills[2].ID)
	})

	t.Run("owner removes bill once", func(t *testing.T) {
		removed, err := f.svc.RemoveBill(ctx, owner.UserID, elsewhere.ID, second.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})
}

func TestBudgets_MembershipRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	outsider := f.user(t, "outsider@example.com")

	circle, err := f.svc.CreateCircle(ctx, owner, "Home")
	require.NoError(t, err)

	_, err = f.svc.AddBudget(ctx, outsider, NewBudget{CircleID: circle.ID, Name: "x", Amount: 1, StartDate: "2024-01-01", EndDate: "2024-01-31"})
	assert.ErrorIs(t, err, ErrNotMember)

	budget, err := f.svc.AddBudget(ctx, owner, NewBudget{CircleID: circle.ID, Name: "January", Amount: 300, StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)

	budgets, err := f.svc.ListBudgets(ctx, outsider.UserID, circle.ID)
	require.NoError(t, err)
	assert.Empty(t, budgets)

	removed, err := f.svc.RemoveBudget(ctx, outsider.UserID, budget.ID, circle.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = f.svc.RemoveBudget(ctx, owner.UserID, budget.ID, circle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestCircleSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	member := f.user(t, "member@example.com")
	outsider := f.user(t, "outsider@example.com")

	circle, err := f.svc.CreateCircle(ctx, owner, "Trip")
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, owner, circle.ID, member.Email)
	require.NoError(t, err)

	_, err = f.svc.AddBill(ctx, owner, NewBill{CircleID: circle.ID, Name: "Hotel", Amount: 100, CategoryID: 7, BillDate: "2024-07-02"})
	require.NoError(t, err)
	_, err = f.svc.AddBudget(ctx, member, NewBudget{CircleID: circle.ID, Name: "July", Amount: 80, StartDate: "2024-07-01", EndDate: "2024-07-31"})
	require.NoError(t, err)

	summary, err := f.svc.CircleSummary(ctx, member.UserID, circle.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.TotalSpent)
	require.Len(t, summary.Balances, 2)
	assert.Equal(t, owner.UID, summary.Balances[0].MemberUID)
	assert.Equal(t, 50.0, summary.Balances[0].NetBalance)
	require.Len(t, summary.Settlement, 1)
	assert.Equal(t, member.UID, summary.Settlement[0].From)
	require.Len(t, summary.Budgets, 1)
	assert.True(t, summary.Budgets[0].Overspent)

	_, err = f.svc.CircleSummary(ctx, outsider.UserID, circle.ID)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestNewService_DefaultQuota(t *testing.T) {
	assert.Equal(t, DefaultCircleQuota, NewService(nil, 0).Quota())
	assert.Equal(t, 5, NewService(nil, 5).Quota())
}

func TestAddBill_UnknownCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	outsider := f.user(t, "outsider@example.com")

	circle, err := f.svc.CreateCircle(ctx, owner, "Flat")
	require.NoError(t, err)

	_, err = f.svc.AddBill(ctx, owner, NewBill{CircleID: circle.ID, Name: "Mystery", Amount: 5, CategoryID: 999, BillDate: "2024-06-01"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.True(t, IsDenial(err))

	// Membership is decided first; outsiders never learn about categories.
	_, err = f.svc.AddBill(ctx, outsider, NewBill{CircleID: circle.ID, Name: "Mystery", Amount: 5, CategoryID: 999, BillDate: "2024-06-01"})
	assert.ErrorIs(t, err, ErrNotMember)
}
