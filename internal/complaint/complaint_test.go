package complaint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInput() Input {
	return Input{
		Title:       "Construction dust",
		Category:    "dust",
		Description: "Heavy dust from the site on Abay Avenue",
		Name:        "A. Resident",
		Email:       "resident@example.com",
		District:    "Almaly",
	}
}

func TestInput_Validate(t *testing.T) {
	assert.Empty(t, validInput().Validate())

	in := validInput()
	in.Title = "   "
	errs := in.Validate()
	assert.Equal(t, "Title is required", errs["title"])

	in = validInput()
	in.Email = ""
	errs = in.Validate()
	assert.Equal(t, "Email is required", errs["email"])

	in = validInput()
	in.Email = "not-an-email"
	errs = in.Validate()
	assert.Equal(t, "Invalid email format", errs["email"])

	in = Input{}
	errs = in.Validate()
	assert.Len(t, errs, 5)
}
