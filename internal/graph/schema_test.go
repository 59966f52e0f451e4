package graph_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"givehub/internal/account"
	"givehub/internal/auth"
	"givehub/internal/donation"
	"givehub/internal/graph"
)

type fakeUserStore struct {
	users []*account.User
}

func (f *fakeUserStore) Create(_ context.Context, u *account.User) error {
	email := strings.ToLower(u.Email)
	for _, existing := range f.users {
		if existing.Email == email {
			return account.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.users = append(f.users, &cp)
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*account.User, error) {
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, account.ErrNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*account.User, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, account.ErrNotFound
}

type fakeDonationStore struct {
	items []donation.Donation
}

func (f *fakeDonationStore) Insert(_ context.Context, d *donation.Donation) error {
	d.ID = primitive.NewObjectID()
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}
	f.items = append(f.items, *d)
	return nil
}

func (f *fakeDonationStore) List(_ context.Context) ([]donation.Donation, error) {
	out := make([]donation.Donation, len(f.items))
	copy(out, f.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type testAPI struct {
	schema    graphql.Schema
	signer    *auth.Signer
	users     *fakeUserStore
	donations *fakeDonationStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	signer := auth.NewSigner("test-secret", 2*time.Hour)
	users := &fakeUserStore{}
	donations := &fakeDonationStore{}
	accounts := account.NewService(users, signer, zerolog.Nop())
	ledger := donation.NewService(donations, users, zerolog.Nop())

	schema, err := graph.NewSchema(accounts, ledger)
	require.NoError(t, err)
	return &testAPI{schema: schema, signer: signer, users: users, donations: donations}
}

// exec runs a GraphQL document the way the HTTP layer would: the bearer
// token, if any, is verified into an Identity on the context and a bad token
// simply leaves the request anonymous.
func (a *testAPI) exec(query string, vars map[string]any, token string) *graphql.Result {
	ctx := context.Background()
	if token != "" {
		if claims, err := a.signer.Verify(token); err == nil {
			ctx = auth.ContextWithIdentity(ctx, &auth.Identity{
				UserID:    claims.Subject,
				FirstName: claims.FirstName,
				Email:     claims.Email,
				Role:      claims.Role,
			})
		}
	}
	return graphql.Do(graphql.Params{
		Schema:         a.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

const registerMutation = `
mutation ($firstName: String!, $email: String!, $password: String!, $role: String) {
	register(firstName: $firstName, email: $email, password: $password, role: $role) {
		token
		user { id firstName email role }
	}
}`

const loginMutation = `
mutation ($email: String!, $password: String!) {
	login(email: $email, password: $password) {
		token
		user { email role }
	}
}`

const addDonationMutation = `
mutation ($donorName: String!, $item: String!, $message: String) {
	addDonation(donorName: $donorName, item: $item, message: $message) {
		id donorName item message date
	}
}`

const donationsQuery = `
{
	donations {
		id donorName item message date
		submittedBy { firstName role }
	}
}`

func payload(t *testing.T, res *graphql.Result, field string) map[string]any {
	t.Helper()
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	out, ok := data[field].(map[string]any)
	require.True(t, ok)
	return out
}

func donations(t *testing.T, res *graphql.Result) []any {
	t.Helper()
	require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	list, ok := data["donations"].([]any)
	require.True(t, ok)
	return list
}

func TestLedgerScenario(t *testing.T) {
	api := newTestAPI(t)

	// Register and log in a regular user.
	res := api.exec(registerMutation, map[string]any{
		"firstName": "Abel", "email": "a@x.com", "password": "secret1",
	}, "")
	reg := payload(t, res, "register")
	require.Equal(t, "user", reg["user"].(map[string]any)["role"])

	res = api.exec(loginMutation, map[string]any{"email": "a@x.com", "password": "secret1"}, "")
	login := payload(t, res, "login")
	userToken, _ := login["token"].(string)
	require.NotEmpty(t, userToken)
	require.Equal(t, "user", login["user"].(map[string]any)["role"])

	// A regular user may not append to the ledger, and nothing is written.
	res = api.exec(addDonationMutation, map[string]any{
		"donorName": "Jane", "item": "$50",
	}, userToken)
	require.True(t, res.HasErrors())
	require.Contains(t, res.Errors[0].Message, "admin access required")

	require.Empty(t, donations(t, api.exec(donationsQuery, nil, "")))

	// Register an admin: the role argument is honored for any caller.
	res = api.exec(registerMutation, map[string]any{
		"firstName": "Admin", "email": "admin@x.com", "password": "secret1", "role": "admin",
	}, "")
	require.Equal(t, "admin", payload(t, res, "register")["user"].(map[string]any)["role"])

	res = api.exec(loginMutation, map[string]any{"email": "admin@x.com", "password": "secret1"}, "")
	adminToken, _ := payload(t, res, "login")["token"].(string)
	require.NotEmpty(t, adminToken)

	res = api.exec(addDonationMutation, map[string]any{
		"donorName": "Jane", "item": "$50", "message": "thanks",
	}, adminToken)
	added := payload(t, res, "addDonation")
	require.Equal(t, "Jane", added["donorName"])
	require.Equal(t, "$50", added["item"])
	require.Equal(t, "thanks", added["message"])
	require.NotEmpty(t, added["date"])

	// The new record lists first with its submitter resolved.
	list := donations(t, api.exec(donationsQuery, nil, ""))
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	require.Equal(t, "Jane", first["donorName"])
	submitter := first["submittedBy"].(map[string]any)
	require.Equal(t, "Admin", submitter["firstName"])
	require.Equal(t, "admin", submitter["role"])
}

func TestAnonymousAddDonation(t *testing.T) {
	api := newTestAPI(t)

	res := api.exec(addDonationMutation, map[string]any{
		"donorName": "Jane", "item": "$50",
	}, "")
	require.True(t, res.HasErrors())
	require.Contains(t, res.Errors[0].Message, "admin access required")

	res = api.exec(addDonationMutation, map[string]any{
		"donorName": "Jane", "item": "$50",
	}, "forged.bearer.token")
	require.True(t, res.HasErrors())
}

func TestNullMessageRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	res := api.exec(registerMutation, map[string]any{
		"firstName": "Admin", "email": "admin@x.com", "password": "secret1", "role": "admin",
	}, "")
	token, _ := payload(t, res, "register")["token"].(string)

	res = api.exec(addDonationMutation, map[string]any{
		"donorName": "Jane", "item": "two chairs",
	}, token)
	require.Nil(t, payload(t, res, "addDonation")["message"])

	list := donations(t, api.exec(donationsQuery, nil, ""))
	require.Len(t, list, 1)
	require.Nil(t, list[0].(map[string]any)["message"])
}

func TestDuplicateEmailViaAPI(t *testing.T) {
	api := newTestAPI(t)

	res := api.exec(registerMutation, map[string]any{
		"firstName": "Abel", "email": "a@x.com", "password": "secret1",
	}, "")
	require.False(t, res.HasErrors())

	res = api.exec(registerMutation, map[string]any{
		"firstName": "Abel", "email": "A@X.com", "password": "secret1",
	}, "")
	require.True(t, res.HasErrors())
	require.Contains(t, res.Errors[0].Message, "email already registered")
}

func TestZeroDateSerializesAsNull(t *testing.T) {
	api := newTestAPI(t)

	u := &account.User{FirstName: "Admin", Email: "admin@x.com", Role: auth.RoleAdmin}
	require.NoError(t, api.users.Create(context.Background(), u))

	// A record persisted without a date resolves to null instead of a
	// zero-value timestamp string.
	api.donations.items = append(api.donations.items, donation.Donation{
		ID:          primitive.NewObjectID(),
		DonorName:   "Jane",
		Item:        "$50",
		SubmittedBy: u.ID,
	})

	list := donations(t, api.exec(donationsQuery, nil, ""))
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	require.Nil(t, first["date"])
	require.Equal(t, "Jane", first["donorName"])
}

func TestValueRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	res := api.exec(registerMutation, map[string]any{
		"firstName": "Admin", "email": "admin@x.com", "password": "secret1", "role": "admin",
	}, "")
	token, _ := payload(t, res, "register")["token"].(string)

	const withValue = `
mutation ($donorName: String!, $item: String!, $value: Float) {
	addDonation(donorName: $donorName, item: $item, value: $value) {
		id donorName value
	}
}`

	t.Run("numeric value survives write and read", func(t *testing.T) {
		res := api.exec(withValue, map[string]any{
			"donorName": "Jane", "item": "$50", "value": 50.0,
		}, token)
		require.Equal(t, 50.0, payload(t, res, "addDonation")["value"])

		list := donations(t, api.exec(`{ donations { donorName value } }`, nil, ""))
		require.Len(t, list, 1)
		require.Equal(t, 50.0, list[0].(map[string]any)["value"])
	})

	t.Run("absent value stays null", func(t *testing.T) {
		res := api.exec(withValue, map[string]any{
			"donorName": "Tom", "item": "two chairs",
		}, token)
		require.Nil(t, payload(t, res, "addDonation")["value"])
	})
}

func TestMeQuery(t *testing.T) {
	api := newTestAPI(t)

	t.Run("anonymous gets null", func(t *testing.T) {
		res := api.exec(`{ me { email } }`, nil, "")
		require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
		require.Nil(t, res.Data.(map[string]any)["me"])
	})

	t.Run("token resolves to the account", func(t *testing.T) {
		res := api.exec(registerMutation, map[string]any{
			"firstName": "Abel", "email": "a@x.com", "password": "secret1",
		}, "")
		token, _ := payload(t, res, "register")["token"].(string)

		res = api.exec(`{ me { firstName email role } }`, nil, token)
		require.False(t, res.HasErrors(), "unexpected errors: %v", res.Errors)
		me := res.Data.(map[string]any)["me"].(map[string]any)
		require.Equal(t, "Abel", me["firstName"])
		require.Equal(t, "a@x.com", me["email"])
		require.Equal(t, "user", me["role"])
	})
}
