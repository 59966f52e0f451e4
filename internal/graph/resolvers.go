package graph

import (
	"errors"

	"github.com/graphql-go/graphql"

	"givehub/internal/account"
	"givehub/internal/auth"
	"givehub/internal/donation"
)

type resolver struct {
	accounts *account.Service
	ledger   *donation.Service
}

type authPayload struct {
	Token string
	User  *account.User
}

func (r *resolver) donations(p graphql.ResolveParams) (any, error) {
	return r.ledger.List(p.Context)
}

func (r *resolver) me(p graphql.ResolveParams) (any, error) {
	id := auth.IdentityFromContext(p.Context)
	u, err := r.accounts.Get(p.Context, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *resolver) register(p graphql.ResolveParams) (any, error) {
	in := account.RegisterInput{
		FirstName: stringArg(p, "firstName"),
		Email:     stringArg(p, "email"),
		Password:  stringArg(p, "password"),
		Role:      stringArg(p, "role"),
	}
	token, u, err := r.accounts.Register(p.Context, in)
	if err != nil {
		return nil, err
	}
	return authPayload{Token: token, User: u}, nil
}

func (r *resolver) login(p graphql.ResolveParams) (any, error) {
	token, u, err := r.accounts.Login(p.Context, stringArg(p, "email"), stringArg(p, "password"))
	if err != nil {
		return nil, err
	}
	return authPayload{Token: token, User: u}, nil
}

func (r *resolver) addDonation(p graphql.ResolveParams) (any, error) {
	id := auth.IdentityFromContext(p.Context)

	in := donation.AddInput{
		DonorName: stringArg(p, "donorName"),
		Item:      stringArg(p, "item"),
	}
	if v, ok := p.Args["message"].(string); ok {
		in.Message = &v
	}
	if v, ok := p.Args["value"].(float64); ok {
		in.Value = &v
	}

	return r.ledger.Add(p.Context, id, in)
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}
