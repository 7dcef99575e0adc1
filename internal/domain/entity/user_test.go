package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// BeforeSave does not touch the transaction, but the hook signature needs one.
var mockTx *gorm.DB = nil

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange
	plainPassword := "mySecretPassword123"
	user := &User{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: plainPassword,
	}

	// Act
	err := user.BeforeSave(mockTx)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, plainPassword, user.Password)

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword))
	assert.NoError(t, err, "the stored hash must match the original password")
}

func TestUser_BeforeSave_SkipsAlreadyHashedPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("alreadyHashed"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{Email: "admin@example.com", Password: string(hashed)}
	originalHash := user.Password

	err = user.BeforeSave(mockTx)

	require.NoError(t, err)
	assert.Equal(t, originalHash, user.Password, "an existing hash must not be re-hashed")
}

func TestUser_BeforeSave_SkipsEmptyPassword(t *testing.T) {
	// Regular users sign in by phone and have no password at all.
	user := &User{Name: "Aziz", Phone: "+998901234567"}

	err := user.BeforeSave(mockTx)

	require.NoError(t, err)
	assert.Empty(t, user.Password)
}

func TestUser_CheckPassword(t *testing.T) {
	user := &User{Password: "secret123"}
	require.NoError(t, user.BeforeSave(mockTx))

	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.False(t, (&User{}).CheckPassword("anything"), "empty hash never matches")
}

func TestUser_ColumnsMatchSchema(t *testing.T) {
	// The note field is stored in the legacy izoh column; a missing column
	// override here breaks every user write against the shipped schema.
	parsed, err := schema.Parse(&User{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	note := parsed.LookUpField("Note")
	require.NotNil(t, note)
	assert.Equal(t, "izoh", note.DBName)

	phone := parsed.LookUpField("Phone")
	require.NotNil(t, phone)
	assert.Equal(t, "phone", phone.DBName)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsAdmin())
}
