package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/Yasserbhb/BeeGuardAI/alerts"
	"github.com/Yasserbhb/BeeGuardAI/apikeys"
	"github.com/Yasserbhb/BeeGuardAI/hives"
	"github.com/Yasserbhb/BeeGuardAI/internal/errors"
	"github.com/Yasserbhb/BeeGuardAI/internal/store"
	"github.com/Yasserbhb/BeeGuardAI/internal/utils"
	"github.com/Yasserbhb/BeeGuardAI/orgs"
	"github.com/Yasserbhb/BeeGuardAI/readings"
	"github.com/Yasserbhb/BeeGuardAI/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	ctx   context.Context
	store *store.Store
	org   *orgs.Organisation
	admin *users.User
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(ctx, db))

	s := store.New(db)
	org := &orgs.Organisation{Name: "Rucher du Lac", Type: orgs.TypeBeekeeper}
	admin := &users.User{Email: "admin@lac.fr", FirstName: "Ada", PasswordHash: "x", Role: users.RoleAdmin}
	require.NoError(t, s.CreateOrgWithAdmin(ctx, org, admin))

	return &testFixture{ctx: ctx, store: s, org: org, admin: admin}
}

func (f *testFixture) otherOrg(t *testing.T, name string) *orgs.Organisation {
	t.Helper()
	org := &orgs.Organisation{Name: name, Type: orgs.TypeResearch}
	require.NoError(t, f.store.Orgs().Create(f.ctx, org))
	return org
}

func (f *testFixture) hive(t *testing.T, orgID int64, name string) *hives.Hive {
	t.Helper()
	hive := &hives.Hive{Name: name, OrgID: orgID}
	require.NoError(t, f.store.Hives().Create(f.ctx, hive))
	return hive
}

func TestStore_CreateOrgWithAdmin(t *testing.T) {
	f := setupTestFixture(t)

	require.NotZero(t, f.org.ID)
	require.Equal(t, f.org.ID, f.admin.OrgID)
	require.False(t, f.admin.CreatedAt.IsZero())

	t.Run("duplicate organisation name is a conflict and leaves no user", func(t *testing.T) {
		org := &orgs.Organisation{Name: "Rucher du Lac", Type: orgs.TypeBeekeeper}
		u := &users.User{Email: "second@lac.fr", PasswordHash: "x", Role: users.RoleAdmin}
		err := f.store.CreateOrgWithAdmin(f.ctx, org, u)
		require.ErrorIs(t, err, errors.ErrConflict)
		require.ErrorIs(t, err, orgs.ErrNameTaken)

		_, err = f.store.Users().GetByEmail(f.ctx, "second@lac.fr")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("duplicate email rolls back the organisation", func(t *testing.T) {
		org := &orgs.Organisation{Name: "Other", Type: orgs.TypeBeekeeper}
		u := &users.User{Email: "admin@lac.fr", PasswordHash: "x", Role: users.RoleAdmin}
		err := f.store.CreateOrgWithAdmin(f.ctx, org, u)
		require.ErrorIs(t, err, errors.ErrConflict)
		require.NotErrorIs(t, err, orgs.ErrNameTaken)

		_, err = f.store.Orgs().GetByName(f.ctx, "Other")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestUserRepo(t *testing.T) {
	f := setupTestFixture(t)
	repo := f.store.Users()

	observer := &users.User{Email: "obs@lac.fr", PasswordHash: "x", Role: users.RoleObserver, OrgID: f.org.ID}
	require.NoError(t, repo.Create(f.ctx, observer))

	got, err := repo.GetByEmail(f.ctx, "obs@lac.fr")
	require.NoError(t, err)
	assert.Equal(t, observer.ID, got.ID)
	assert.Equal(t, users.RoleObserver, got.Role)
	assert.Equal(t, "Rucher du Lac", got.OrgName)

	require.NoError(t, repo.UpdateRole(f.ctx, observer.ID, users.RoleManager))
	got, err = repo.GetByID(f.ctx, observer.ID)
	require.NoError(t, err)
	assert.Equal(t, users.RoleManager, got.Role)

	list, err := repo.ListByOrg(f.ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = repo.GetByID(f.ctx, 999)
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.ErrorIs(t, repo.UpdateRole(f.ctx, 999, users.RoleAdmin), errors.ErrNotFound)
}

func TestAPIKeyRepo(t *testing.T) {
	f := setupTestFixture(t)
	repo := f.store.APIKeys()

	raw, key, err := apikeys.Generate("bga", f.org.ID, "gateway")
	require.NoError(t, err)
	require.NoError(t, repo.Create(f.ctx, key))

	got, err := repo.GetByHash(f.ctx, apikeys.Hash(raw))
	require.NoError(t, err)
	assert.Equal(t, key.ID, got.ID)
	assert.True(t, got.Active)
	assert.Nil(t, got.LastUsedAt)

	used := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastUsed(f.ctx, key.ID, used))
	require.NoError(t, repo.SetActive(f.ctx, key.ID, false))

	got, err = repo.Get(f.ctx, key.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.LastUsedAt)
	assert.True(t, used.Equal(*got.LastUsedAt))

	_, err = repo.GetByHash(f.ctx, apikeys.Hash("bga_nope"))
	require.ErrorIs(t, err, errors.ErrNotFound)

	list, err := repo.ListByOrg(f.ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestHiveRepo(t *testing.T) {
	f := setupTestFixture(t)

	apiary := &hives.Apiary{Name: "North field", OrgID: f.org.ID}
	require.NoError(t, f.store.Apiaries().Create(f.ctx, apiary))

	hive := &hives.Hive{Name: "Ruche 1", Location: "row 1", ApiaryID: &apiary.ID, OrgID: f.org.ID}
	require.NoError(t, f.store.Hives().Create(f.ctx, hive))

	t.Run("name is unique per organisation", func(t *testing.T) {
		err := f.store.Hives().Create(f.ctx, &hives.Hive{Name: "Ruche 1", OrgID: f.org.ID})
		require.ErrorIs(t, err, errors.ErrConflict)

		other := f.otherOrg(t, "Lab")
		require.NoError(t, f.store.Hives().Create(f.ctx, &hives.Hive{Name: "Ruche 1", OrgID: other.ID}))
	})

	t.Run("get by name with apiary name", func(t *testing.T) {
		got, err := f.store.Hives().GetByName(f.ctx, f.org.ID, "Ruche 1")
		require.NoError(t, err)
		assert.Equal(t, hive.ID, got.ID)
		assert.Equal(t, "North field", got.ApiaryName)
	})

	t.Run("partial update and detach", func(t *testing.T) {
		require.NoError(t, f.store.Hives().Update(f.ctx, hive.ID, hives.HiveUpdate{DeviceID: utils.Ptr("eui-01")}))
		got, err := f.store.Hives().Get(f.ctx, hive.ID)
		require.NoError(t, err)
		assert.Equal(t, "eui-01", got.DeviceID)
		assert.Equal(t, "row 1", got.Location)
		require.NotNil(t, got.ApiaryID)

		byDevice, err := f.store.Hives().GetByDeviceID(f.ctx, f.org.ID, "eui-01")
		require.NoError(t, err)
		assert.Equal(t, hive.ID, byDevice.ID)
		_, err = f.store.Hives().GetByDeviceID(f.ctx, f.org.ID+1, "eui-01")
		require.ErrorIs(t, err, errors.ErrNotFound)
		_, err = f.store.Hives().GetByDeviceID(f.ctx, f.org.ID, "")
		require.ErrorIs(t, err, errors.ErrNotFound)

		require.NoError(t, f.store.Hives().Update(f.ctx, hive.ID, hives.HiveUpdate{ApiaryID: utils.Ptr(int64(0))}))
		got, err = f.store.Hives().Get(f.ctx, hive.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ApiaryID)

		require.ErrorIs(t, f.store.Hives().Update(f.ctx, hive.ID, hives.HiveUpdate{}), errors.ErrInvalidRequest)
		require.ErrorIs(t, f.store.Hives().Update(f.ctx, 999, hives.HiveUpdate{Name: utils.Ptr("x")}), errors.ErrNotFound)
	})

	t.Run("deleting an apiary detaches its hives", func(t *testing.T) {
		require.NoError(t, f.store.Hives().Update(f.ctx, hive.ID, hives.HiveUpdate{ApiaryID: &apiary.ID}))
		require.NoError(t, f.store.Apiaries().Delete(f.ctx, apiary.ID))

		got, err := f.store.Hives().Get(f.ctx, hive.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ApiaryID)
		assert.Empty(t, got.ApiaryName)
	})

	t.Run("deleting a hive deletes its readings", func(t *testing.T) {
		require.NoError(t, f.store.Readings().Insert(f.ctx, &readings.Reading{HiveID: hive.ID, Hornets: 1}))
		require.NoError(t, f.store.Hives().Delete(f.ctx, hive.ID))

		_, err := f.store.Readings().Latest(f.ctx, hive.ID)
		require.ErrorIs(t, err, errors.ErrNotFound)
		require.ErrorIs(t, f.store.Hives().Delete(f.ctx, hive.ID), errors.ErrNotFound)
	})
}

func TestApiaryRepo(t *testing.T) {
	f := setupTestFixture(t)
	repo := f.store.Apiaries()

	apiary := &hives.Apiary{Name: "South", Location: "valley", OrgID: f.org.ID}
	require.NoError(t, repo.Create(f.ctx, apiary))
	require.NoError(t, repo.Update(f.ctx, apiary.ID, hives.ApiaryUpdate{Name: utils.Ptr("South slope")}))

	got, err := repo.Get(f.ctx, apiary.ID)
	require.NoError(t, err)
	assert.Equal(t, "South slope", got.Name)
	assert.Equal(t, "valley", got.Location)

	list, err := repo.ListByOrg(f.ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.ErrorIs(t, repo.Update(f.ctx, apiary.ID, hives.ApiaryUpdate{}), errors.ErrInvalidRequest)
}

func TestReadingRepo(t *testing.T) {
	f := setupTestFixture(t)
	repo := f.store.Readings()
	a := f.hive(t, f.org.ID, "A")
	b := f.hive(t, f.org.ID, "B")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(f.ctx, &readings.Reading{
			HiveID:      a.ID,
			Hornets:     i,
			BeesIn:      10,
			BeesOut:     10,
			Temperature: utils.Ptr(20.5),
			RecordedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("latest", func(t *testing.T) {
		latest, err := repo.Latest(f.ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, latest.Hornets)
		assert.True(t, base.Add(4*time.Minute).Equal(latest.RecordedAt))
		require.NotNil(t, latest.Temperature)
		assert.Nil(t, latest.Humidity)

		_, err = repo.Latest(f.ctx, b.ID)
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("history is newest first with limit and window", func(t *testing.T) {
		list, err := repo.History(f.ctx, readings.Query{HiveID: a.ID, Limit: 2})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 4, list[0].Hornets)
		assert.Equal(t, 3, list[1].Hornets)

		list, err = repo.History(f.ctx, readings.Query{HiveID: a.ID, Limit: 100, Since: base.Add(3 * time.Minute)})
		require.NoError(t, err)
		require.Len(t, list, 2)
	})

	t.Run("dashboard lists every hive with its latest reading", func(t *testing.T) {
		rows, err := repo.LatestByOrg(f.ctx, f.org.ID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0].Name)
		require.NotNil(t, rows[0].Latest)
		assert.Equal(t, 4, rows[0].Latest.Hornets)
		assert.Equal(t, "B", rows[1].Name)
		assert.Nil(t, rows[1].Latest)
	})

	t.Run("totals since", func(t *testing.T) {
		totals, err := repo.TotalsSince(f.ctx, a.ID, base.Add(3*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, readings.Totals{Hornets: 7, Bees: 40}, totals)

		totals, err = repo.TotalsSince(f.ctx, b.ID, base)
		require.NoError(t, err)
		assert.Equal(t, readings.Totals{}, totals)
	})

	t.Run("zero recorded_at is stamped by the database", func(t *testing.T) {
		r := &readings.Reading{HiveID: b.ID, BeesIn: 1}
		require.NoError(t, repo.Insert(f.ctx, r))
		assert.NotZero(t, r.ID)
		assert.WithinDuration(t, time.Now().UTC(), r.RecordedAt, time.Minute)
	})

	t.Run("unknown hive violates the foreign key", func(t *testing.T) {
		require.Error(t, repo.Insert(f.ctx, &readings.Reading{HiveID: 999}))
	})
}

func TestSettingsRepo(t *testing.T) {
	f := setupTestFixture(t)
	repo := f.store.Settings()

	_, err := repo.Get(f.ctx, f.admin.ID)
	require.ErrorIs(t, err, errors.ErrNotFound)

	s := alerts.Defaults(f.admin.ID, "")
	s.Alerts.Enabled = true
	s.Alerts.HornetThreshold = 12
	require.NoError(t, repo.Upsert(f.ctx, &s))

	got, err := repo.Get(f.ctx, f.admin.ID)
	require.NoError(t, err)
	assert.True(t, got.Alerts.Enabled)
	assert.Equal(t, 12, got.Alerts.HornetThreshold)
	assert.Equal(t, "weekly", got.Reports.Frequency)

	recipients, err := repo.Recipients(f.ctx, f.org.ID)
	require.NoError(t, err)
	require.Equal(t, []alerts.Recipient{{UserID: f.admin.ID, Email: "admin@lac.fr", Threshold: 12}}, recipients)

	s.Alerts.Enabled = false
	require.NoError(t, repo.Upsert(f.ctx, &s))
	recipients, err = repo.Recipients(f.ctx, f.org.ID)
	require.NoError(t, err)
	require.Empty(t, recipients)
}
