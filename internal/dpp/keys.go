package dpp

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrIdentityPoint is returned when a point multiplication step in key
// derivation would yield the identity element -- an invalid DPP exchange,
// never expected with honest input.
var ErrIdentityPoint = errors.New("dpp: point multiplication yielded the identity")

const (
	infoK1 = "first intermediate key"
	infoK2 = "second intermediate key"
	infoKe = "DPP Key"
)

// pointFromX reconstructs a P-256 point from its DPP wire representation:
// the 32-byte X coordinate alone, Y taken to be even. Bootstrapping and
// protocol public keys are carried in exactly this compact form, so the
// sign of Y is never itself transmitted.
func pointFromX(x []byte) (*ecdh.PublicKey, error) {
	curve := elliptic.P256()
	compressed := make([]byte, 0, 1+len(x))
	compressed = append(compressed, 0x02)
	compressed = append(compressed, x...)

	px, py := elliptic.UnmarshalCompressed(curve, compressed)
	if px == nil {
		return nil, errors.New("dpp: invalid curve point")
	}

	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04
	px.FillBytes(uncompressed[1:33])
	py.FillBytes(uncompressed[33:65])
	return ecdh.P256().NewPublicKey(uncompressed)
}

func scalarFromBytes(b []byte) (*ecdh.PrivateKey, error) {
	return ecdh.P256().NewPrivateKey(b)
}

func hkdfSHA256(salt, ikm []byte, info string, length int) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, salt, []byte(info))
	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeriveK1 computes M = rBootPrivate * iProtoPublic and
// k1 = HKDF(salt=nil, IKM=M.x, info="first intermediate key"). mx (M's X
// coordinate) is returned alongside k1 since DeriveKe needs it again.
func DeriveK1(iProtoPublicX, rBootPrivate []byte) (k1, mx []byte, err error) {
	pub, err := pointFromX(iProtoPublicX)
	if err != nil {
		return nil, nil, err
	}
	priv, err := scalarFromBytes(rBootPrivate)
	if err != nil {
		return nil, nil, err
	}
	mx, err = priv.ECDH(pub)
	if err != nil {
		return nil, nil, ErrIdentityPoint
	}
	k1, err = hkdfSHA256(nil, mx, infoK1, sha256.Size)
	if err != nil {
		return nil, nil, err
	}
	return k1, mx, nil
}

// DeriveK2 computes N = rProtoPrivate * iProtoPublic and
// k2 = HKDF(salt=nil, IKM=N.x, info="second intermediate key").
func DeriveK2(iProtoPublicX, rProtoPrivate []byte) (k2, nx []byte, err error) {
	pub, err := pointFromX(iProtoPublicX)
	if err != nil {
		return nil, nil, err
	}
	priv, err := scalarFromBytes(rProtoPrivate)
	if err != nil {
		return nil, nil, err
	}
	nx, err = priv.ECDH(pub)
	if err != nil {
		return nil, nil, ErrIdentityPoint
	}
	k2, err = hkdfSHA256(nil, nx, infoK2, sha256.Size)
	if err != nil {
		return nil, nil, err
	}
	return k2, nx, nil
}

// DeriveKe computes ke = HKDF(salt=iNonce||rNonce, IKM=mx||nx, info="DPP Key"),
// where mx and nx are the X coordinates DeriveK1/DeriveK2 already produced.
func DeriveKe(iNonce, rNonce, mx, nx []byte) ([]byte, error) {
	salt := append(append([]byte{}, iNonce...), rNonce...)
	ikm := append(append([]byte{}, mx...), nx...)
	return hkdfSHA256(salt, ikm, infoKe, sha256.Size)
}

// DeriveRAuth computes the responder authentication tag:
// SHA256(iNonce||rNonce||I.x||R.x||B.x||0x00), where I is the initiator
// protocol key, R the responder protocol key, and B the responder
// bootstrapping key. Only the X coordinate of each point is hashed, per
// Wi-Fi Easy Connect §6.4.2 -- the Y coordinate never enters the tag.
func DeriveRAuth(iNonce, rNonce, iProtoPublicX, rProtoPublicX, rBootPublicX []byte) ([]byte, error) {
	return deriveAuthTag(iNonce, rNonce, iProtoPublicX, rProtoPublicX, rBootPublicX, 0)
}

// DeriveIAuth computes the initiator authentication tag: the same
// construction with the nonce and protocol-key order swapped and a
// trailing 0x01 in place of 0x00.
func DeriveIAuth(rNonce, iNonce, rProtoPublicX, iProtoPublicX, rBootPublicX []byte) ([]byte, error) {
	return deriveAuthTag(rNonce, iNonce, rProtoPublicX, iProtoPublicX, rBootPublicX, 1)
}

func deriveAuthTag(nonce1, nonce2, pub1X, pub2X, pub3X []byte, trailing byte) ([]byte, error) {
	h := sha256.New()
	h.Write(nonce1)
	h.Write(nonce2)
	h.Write(pub1X)
	h.Write(pub2X)
	h.Write(pub3X)
	h.Write([]byte{trailing})

	return h.Sum(nil), nil
}
