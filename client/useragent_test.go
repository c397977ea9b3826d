package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUserAgent(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		for _, agent := range []string{
			"agent",
			"TestSuite/1 (0.0.0)",
			"my-service (1.2.3)",
			"svc_name/2.0, extras#1; more.things",
			"a",
		} {
			assert.NoError(t, ValidateUserAgent(agent), agent)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		for _, agent := range []string{
			"",
			"!@",
			"agent!",
			"agent@example",
			"quoted\"agent\"",
			"tab\tseparated?no:*",
		} {
			err := ValidateUserAgent(agent)
			require.Error(t, err, agent)
			assert.True(t, IsErrorType(err, IdentificationError), agent)
		}
	})
}

func TestValidateUserAgentErrorMessage(t *testing.T) {
	err := ValidateUserAgent("!@")
	require.Error(t, err)
	assert.Equal(t, `User Agent must match pattern '[A-Za-z0-9()\-#;/.,_\s]+': !@`, err.Error())
}

func TestDecorateUserAgent(t *testing.T) {
	decorated := decorateUserAgent("TestSuite/1 (0.0.0)")

	assert.True(t, strings.HasPrefix(decorated, "TestSuite/1 (0.0.0)"))
	assert.True(t, strings.HasSuffix(decorated, "go-fleet/"+Version))
}
