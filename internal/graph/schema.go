// Package graph wires the account and donation services into a GraphQL
// schema. Resolvers read the verified identity off the request context and
// hand it to the services explicitly; nothing below the resolvers touches
// transport state.
package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"givehub/internal/account"
	"givehub/internal/donation"
)

// NewSchema builds the full query/mutation schema over the two services.
func NewSchema(accounts *account.Service, ledger *donation.Service) (graphql.Schema, error) {
	r := &resolver{accounts: accounts, ledger: ledger}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*account.User).ID.Hex(), nil
				},
			},
			"firstName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*account.User).FirstName, nil
				},
			},
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*account.User).Email, nil
				},
			},
			"role": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*account.User).Role, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return isoDate(p.Source.(*account.User).CreatedAt), nil
				},
			},
		},
	})

	submitterType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Submitter",
		Fields: graphql.Fields{
			"firstName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*donation.Submitter).FirstName, nil
				},
			},
			"role": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(*donation.Submitter).Role, nil
				},
			},
		},
	})

	donationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Donation",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return sourceDonation(p.Source).ID.Hex(), nil
				},
			},
			"donorName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return sourceDonation(p.Source).DonorName, nil
				},
			},
			"item": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return sourceDonation(p.Source).Item, nil
				},
			},
			"value": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return nilable(sourceDonation(p.Source).Value), nil
				},
			},
			"message": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return nilable(sourceDonation(p.Source).Message), nil
				},
			},
			"date": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return isoDate(sourceDonation(p.Source).Date), nil
				},
			},
			"submittedBy": &graphql.Field{
				Type: submitterType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if r, ok := p.Source.(donation.Resolved); ok && r.Submitter != nil {
						return r.Submitter, nil
					}
					return nil, nil
				},
			},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(authPayload).Token, nil
				},
			},
			"user": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(authPayload).User, nil
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"donations": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(donationType))),
				Description: "The donation ledger, most recent first. Public.",
				Resolve:     r.donations,
			},
			"me": &graphql.Field{
				Type:        userType,
				Description: "The account behind the bearer token, or null when anonymous.",
				Resolve:     r.me,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"firstName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"role": &graphql.ArgumentConfig{
						Type:        graphql.String,
						Description: "Defaults to user. Accepts admin from any caller; nothing gates the request.",
					},
				},
				Resolve: r.register,
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"addDonation": &graphql.Field{
				Type:        graphql.NewNonNull(donationType),
				Description: "Appends one entry to the ledger. Requires an admin bearer token.",
				Args: graphql.FieldConfigArgument{
					"donorName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"item":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"message":   &graphql.ArgumentConfig{Type: graphql.String},
					"value":     &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: r.addDonation,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func sourceDonation(src any) donation.Donation {
	switch v := src.(type) {
	case donation.Resolved:
		return v.Donation
	case *donation.Donation:
		return *v
	case donation.Donation:
		return v
	}
	return donation.Donation{}
}

func isoDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nilable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
