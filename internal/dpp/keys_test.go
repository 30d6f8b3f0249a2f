package dpp

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// Published P-256 responder-only DPP Authentication test vectors.
const (
	iProtoPublicHex  = "50a532ae2a07207276418d2fa630295d45569be425aa634f02014d00a7d1f61a"
	rBootPublicHex   = "09c585a91b4df9fd25a045201885c39cc5cfae397ddaeda957dec57fa0e3503f"
	rBootPrivateHex  = "54ce181a98525f217216f59b245f60e9df30ac7f6b26c939418cfc3c42d1afa0"
	rProtoPrivateHex = "f798ed2e19286f6a6efe210b1863badb99af2a14b497634dbfd2a97394fb5aa5"
	rProtoPublicHex  = "5e3fb3576884887f17c3203d8a3a6c2fac722ef0e2201b61ac73bc655c709a90"

	k1Hex = "3d832a02ed6d7fc1dc96d2eceab738cf01c0028eb256be33d5a21a720bfcf949"
	k2Hex = "ca08bdeeef838ddf897a5f01f20bb93dc5a895cb86788ca8c00a7664899bc310"
	keHex = "c8882a8ab30c878467822534138c704ede0ab1e873fe03b601a7908463fec87a"
	mxHex = "dde2878117d69745be4f916a2dd14269d783d1d788c603bb8746beabbd1dbbbc"
	nxHex = "92118478b75c21c2c59340c842b5bce560a535f60bc37a75fe390d738c58d8e8"

	iNonceHex = "13f4602a16daeb69712263b9c46cba31"
	rNonceHex = "3d0cfb011ca916d796f7029ff0b43393"

	iAuthHex = "787d1189b526448d2901e7f6c22775ce514fce52fc886c1e924f2fbb8d97b210"
	rAuthHex = "43509ef7137d8c2fbe66d802ae09dedd94d41b8cbfafb4954782014ff4a3f91c"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDeriveKeys_PublishedVectors(t *testing.T) {
	iProtoPublic := mustHex(t, iProtoPublicHex)
	rBootPublic := mustHex(t, rBootPublicHex)
	rBootPrivate := mustHex(t, rBootPrivateHex)
	rProtoPrivate := mustHex(t, rProtoPrivateHex)
	rProtoPublic := mustHex(t, rProtoPublicHex)
	iNonce := mustHex(t, iNonceHex)
	rNonce := mustHex(t, rNonceHex)

	k1, mx, err := DeriveK1(iProtoPublic, rBootPrivate)
	require.NoError(t, err)
	require.Equal(t, mustHex(t, mxHex), mx)
	require.Equal(t, mustHex(t, k1Hex), k1)

	k2, nx, err := DeriveK2(iProtoPublic, rProtoPrivate)
	require.NoError(t, err)
	require.Equal(t, mustHex(t, nxHex), nx)
	require.Equal(t, mustHex(t, k2Hex), k2)

	ke, err := DeriveKe(iNonce, rNonce, mx, nx)
	require.NoError(t, err)
	require.Equal(t, mustHex(t, keHex), ke)

	rAuth, err := DeriveRAuth(iNonce, rNonce, iProtoPublic, rProtoPublic, rBootPublic)
	require.NoError(t, err)
	require.Equal(t, mustHex(t, rAuthHex), rAuth)

	iAuth, err := DeriveIAuth(rNonce, iNonce, rProtoPublic, iProtoPublic, rBootPublic)
	require.NoError(t, err)
	require.Equal(t, mustHex(t, iAuthHex), iAuth)
}
