package cli

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/axtl/jose"
)

// SignCmd signs claims into a JWS
type SignCmd struct {
	Claims string `arg:"" required:"" help:"claims as inline JSON or a file path"`
	Key    string `required:"" help:"path to the signing key: a shared secret file or an RSA private key PEM" type:"path"`
	Alg    string `help:"signature algorithm" default:"HS256"`
}

// Run the command
func (a *SignCmd) Run(ctx *Cli) error {
	claims, err := loadClaims(ctx, a.Claims)
	if err != nil {
		return err
	}
	key, err := ctx.ReadFileOrStdin(a.Key)
	if err != nil {
		return errors.WithMessage(err, "unable to load key")
	}

	t, err := jose.Sign(claims, key, jose.WithAlgorithm(a.Alg))
	if err != nil {
		return errors.WithMessage(err, "failed to sign")
	}

	fmt.Fprintln(ctx.Writer(), t.Serialize())
	return nil
}

// VerifyCmd verifies a JWS and prints its claims
type VerifyCmd struct {
	Token string `arg:"" required:"" help:"compact JWS token"`
	Key   string `required:"" help:"path to the verification key: a shared secret file or an RSA key PEM" type:"path"`
}

// Run the command
func (a *VerifyCmd) Run(ctx *Cli) error {
	key, err := ctx.ReadFileOrStdin(a.Key)
	if err != nil {
		return errors.WithMessage(err, "unable to load key")
	}

	engine := jose.NewEngine()
	res, err := engine.VerifyCompact(a.Token, key)
	if err != nil {
		return errors.WithMessage(err, "failed to verify")
	}

	return ctx.WriteJSON(res)
}
