package jose

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"time"

	"github.com/effective-security/x/guid"
	"github.com/effective-security/x/values"
	"github.com/pkg/errors"
)

// Reserved claim names with temporal meaning, in UNIX seconds.
const (
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
	ClaimIssuedAt  = "iat"
	ClaimID        = "jti"
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
)

// Claims provides generic claims on map
type Claims map[string]any

// CreateClaims returns standard claims for an issued token. An empty id is
// replaced with a new GUID.
func CreateClaims(id, subject, issuer string, audience []string, expiry time.Duration, extra Claims) Claims {
	if id == "" {
		id = guid.MustCreate()
	}
	now := time.Now().UTC()
	c := Claims{
		ClaimID:        id,
		ClaimIssuer:    issuer,
		ClaimIssuedAt:  now.Unix(),
		ClaimExpiresAt: now.Add(expiry).Unix(),
	}
	if subject != "" {
		c[ClaimSubject] = subject
	}
	switch len(audience) {
	case 0:
	case 1:
		c[ClaimAudience] = audience[0]
	default:
		c[ClaimAudience] = audience
	}
	_ = c.Add(extra)
	return c
}

// Add new claims to the map
func (c Claims) Add(val ...any) error {
	for _, i := range val {
		if i == nil {
			continue
		}
		switch m := i.(type) {
		case map[string]any:
			c.merge(m)
		case Claims:
			c.merge(m)
		default:
			if reflect.Indirect(reflect.ValueOf(i)).Kind() == reflect.Struct {
				m, err := normalize(i)
				if err != nil {
					return errors.WithStack(err)
				}
				c.merge(m)
			} else {
				return errors.Errorf("unsupported claims interface")
			}
		}
	}
	return nil
}

// To converts the claims to the value pointed to by v.
func (c Claims) To(val any) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}

	d := json.NewDecoder(bytes.NewReader(raw))
	if err := d.Decode(val); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Marshal returns JSON encoded string
func (c Claims) Marshal() string {
	raw, _ := json.Marshal(c)
	return string(raw)
}

func (c Claims) merge(m map[string]any) {
	for k, v := range m {
		c[k] = v
	}
}

func normalize(i any) (map[string]any, error) {
	m := make(map[string]any)

	raw, err := json.Marshal(i)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()

	if err := d.Decode(&m); err != nil {
		return nil, errors.WithStack(err)
	}

	return m, nil
}

// String will return the named claim as a string,
// if the underlying type is not a string,
// it will try and co-oerce it to a string.
func (c Claims) String(k string) string {
	v := c[k]
	if v == nil {
		return ""
	}
	switch tv := v.(type) {
	case string:
		return tv
	default:
		return values.String(v)
	}
}

// Time will return the named claim as Time
func (c Claims) Time(k string) *time.Time {
	v := c[k]
	if v == nil {
		return nil
	}
	switch tv := v.(type) {
	case time.Time:
		return &tv
	case *time.Time:
		return tv
	case int64:
		t := time.Unix(tv, 0)
		return &t
	case int:
		t := time.Unix(int64(tv), 0)
		return &t
	case float64:
		t := time.Unix(int64(tv), 0)
		return &t
	case json.Number:
		f, err := tv.Float64()
		if err != nil {
			return nil
		}
		t := time.Unix(int64(f), 0)
		return &t
	case string:
		unix, err := strconv.ParseInt(tv, 10, 64)
		if err != nil {
			return nil
		}
		t := time.Unix(unix, 0)
		return &t
	default:
		return nil
	}
}

// Int will return the named claim as an int
func (c Claims) Int(k string) int {
	v := c[k]
	if v == nil {
		return 0
	}
	switch tv := v.(type) {
	case int:
		return tv
	case int32:
		return int(tv)
	case int64:
		return int(tv)
	case float64:
		return int(tv)
	case json.Number:
		i, err := tv.Int64()
		if err != nil {
			return 0
		}
		return int(i)
	case string:
		i, err := strconv.Atoi(tv)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// ValidAt checks the reserved temporal claims against the supplied time:
// an "exp" at or before now fails with TokenExpired, an "nbf" after now
// fails with TokenNotYetValid. There is no clock-skew leeway.
func (c Claims) ValidAt(now time.Time) error {
	if exp := c.Time(ClaimExpiresAt); exp != nil && !now.Before(*exp) {
		return newError(TokenExpired, "Token expired at %s", exp.UTC().Format(time.RFC3339))
	}
	if nbf := c.Time(ClaimNotBefore); nbf != nil && nbf.After(now) {
		return newError(TokenNotYetValid, "Token not valid until %s", nbf.UTC().Format(time.RFC3339))
	}
	return nil
}

func parseClaims(raw []byte) (Claims, error) {
	c := Claims{}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&c); err != nil {
		return nil, wrapError(InvalidInput, err, "invalid claims payload")
	}
	return c, nil
}
