package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type sizedPayload struct {
	Nick string `json:"nick" binding:"max=3"`
	Age  int    `json:"age" binding:"min=18"`
}

func TestMessage_UsesRegisteredMessages(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&registerPayload{Email: "nope", Password: "short"})
	require.Error(t, err)

	assert.Equal(t, "Name is required, Valid email required, Password must be at least 8 characters", Message(err))
	assert.Equal(t, map[string]string{
		"name":     "Name is required",
		"email":    "Valid email required",
		"password": "Password must be at least 8 characters",
	}, ToDetails(err))
}

func TestMessage_FallsBackToGenericText(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&sizedPayload{Nick: "toolong", Age: 3})
	require.Error(t, err)

	assert.Equal(t, "nick must be at most 3 characters long, age must be at least 18", Message(err))
}

func TestMessage_NonValidationError(t *testing.T) {
	assert.Equal(t, InvalidRequest, Message(assert.AnError))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
	assert.Nil(t, ToDetails(nil))
}
