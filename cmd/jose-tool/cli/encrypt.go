package cli

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/axtl/jose"
)

// EncryptCmd encrypts claims into a JWE
type EncryptCmd struct {
	Claims      string `arg:"" required:"" help:"claims as inline JSON or a file path"`
	Key         string `required:"" help:"path to the recipient RSA public key PEM" type:"path"`
	Alg         string `help:"key management algorithm" default:"RSA-OAEP"`
	Enc         string `help:"content encryption algorithm" default:"A128CBC-HS256"`
	Compression string `help:"compression algorithm (DEF)" optional:""`
	Adata       string `help:"additional authenticated data" optional:""`
}

// Run the command
func (a *EncryptCmd) Run(ctx *Cli) error {
	claims, err := loadClaims(ctx, a.Claims)
	if err != nil {
		return err
	}
	key, err := ctx.ReadFileOrStdin(a.Key)
	if err != nil {
		return errors.WithMessage(err, "unable to load key")
	}

	opts := []jose.CallOption{
		jose.WithAlgorithm(a.Alg),
		jose.WithEncryption(a.Enc),
	}
	if a.Compression != "" {
		opts = append(opts, jose.WithCompression(a.Compression))
	}
	if a.Adata != "" {
		opts = append(opts, jose.WithAdata([]byte(a.Adata)))
	}

	t, err := jose.Encrypt(claims, key, opts...)
	if err != nil {
		return errors.WithMessage(err, "failed to encrypt")
	}

	fmt.Fprintln(ctx.Writer(), t.Serialize())
	return nil
}

// DecryptCmd decrypts a JWE and prints its claims
type DecryptCmd struct {
	Token string `arg:"" required:"" help:"compact JWE token"`
	Key   string `required:"" help:"path to the recipient RSA private key PEM" type:"path"`
	Adata string `help:"additional authenticated data" optional:""`
}

// Run the command
func (a *DecryptCmd) Run(ctx *Cli) error {
	key, err := ctx.ReadFileOrStdin(a.Key)
	if err != nil {
		return errors.WithMessage(err, "unable to load key")
	}

	var opts []jose.CallOption
	if a.Adata != "" {
		opts = append(opts, jose.WithAdata([]byte(a.Adata)))
	}

	engine := jose.NewEngine()
	res, err := engine.DecryptCompact(a.Token, key, opts...)
	if err != nil {
		return errors.WithMessage(err, "failed to decrypt")
	}

	return ctx.WriteJSON(res)
}
