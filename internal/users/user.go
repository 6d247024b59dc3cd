package users

// User is the stored user record.
type User struct {
	ID        string `json:"id" swagger:"format=uuid,readOnly,description=User ID"`
	Login     string `json:"login" swagger:"example=john@doe.com"`
	Email     string `json:"email" swagger:"format=email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Input is the writable part of a user, accepted by create and update.
type Input struct {
	Login     string `json:"login" validate:"required,min=3,max=64" swagger:"example=john@doe.com,minLength=3,maxLength=64"`
	Email     string `json:"email" validate:"required,email" swagger:"format=email"`
	FirstName string `json:"firstName,omitempty" validate:"max=64" swagger:"maxLength=64"`
	LastName  string `json:"lastName,omitempty" validate:"max=64" swagger:"maxLength=64"`
}

// ListQuery holds the query parameters of the list endpoint.
type ListQuery struct {
	Offset int    `schema:"offset" validate:"gte=0"`
	Limit  int    `schema:"limit" validate:"gte=0,lte=100"`
	Login  string `schema:"login"`
}

// DefaultLimit is used when ListQuery.Limit is zero.
const DefaultLimit = 20

// Error is the JSON body of every error response.
type Error struct {
	Code    string            `json:"code" swagger:"enum=invalid_argument|not_found|conflict|internal"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
