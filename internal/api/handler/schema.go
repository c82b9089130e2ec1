package handler

import (
	"strconv"
	"strings"

	"github.com/csemotors/dealership/internal/core/domain"
)

type loginForm struct {
	Email    string `form:"account_email" validate:"required,email"`
	Password string `form:"account_password" validate:"required"`
}

func (f *loginForm) Normalize() { f.Email = domain.NormalizeEmail(f.Email) }
func (f *loginForm) Redact()    { f.Password = "" }

func (f *loginForm) Messages() map[string]string {
	return map[string]string{
		"account_email":    "A valid email is required.",
		"account_password": "Please provide your password.",
	}
}

type registerForm struct {
	FirstName string `form:"account_firstname" validate:"required,max=50,personname"`
	LastName  string `form:"account_lastname" validate:"required,min=2,max=50,personname"`
	Email     string `form:"account_email" validate:"required,email,max=254"`
	Password  string `form:"account_password" validate:"required,passwordbytes,strongpassword"`
}

func (f *registerForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = domain.NormalizeEmail(f.Email)
}

func (f *registerForm) Redact() { f.Password = "" }

func (f *registerForm) Messages() map[string]string {
	return map[string]string{
		"account_firstname": "Please provide a first name.",
		"account_lastname":  "Please provide a last name.",
		"account_email":     "A valid email is required.",
	}
}

type profileForm struct {
	FirstName string `form:"account_firstname" validate:"required,max=50,personname"`
	LastName  string `form:"account_lastname" validate:"required,min=2,max=50,personname"`
	Email     string `form:"account_email" validate:"required,email,max=254"`
}

func (f *profileForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = domain.NormalizeEmail(f.Email)
}

func (f *profileForm) Messages() map[string]string {
	return map[string]string{
		"account_firstname": "Please provide a first name.",
		"account_lastname":  "Please provide a last name.",
		"account_email":     "A valid email is required.",
	}
}

func profileFormOf(a *domain.Account) *profileForm {
	return &profileForm{FirstName: a.FirstName, LastName: a.LastName, Email: a.Email}
}

type passwordForm struct {
	Password string `form:"account_password" validate:"required,passwordbytes,strongpassword"`
}

func (f *passwordForm) Normalize() {}
func (f *passwordForm) Redact()    { f.Password = "" }

type commentForm struct {
	InventoryID int64  `form:"inv_id" validate:"required,gt=0"`
	Text        string `form:"comment_text" validate:"required,min=2,max=2000"`
}

func (f *commentForm) Normalize() { f.Text = strings.TrimSpace(f.Text) }

func (f *commentForm) Messages() map[string]string {
	return map[string]string{
		"comment_text": "Comments must be at least 2 characters long.",
	}
}

type editCommentForm struct {
	CommentID   int64  `form:"comment_id" validate:"required,gt=0"`
	InventoryID int64  `form:"inv_id"`
	Text        string `form:"comment_text" validate:"required,min=2,max=2000"`
}

func (f *editCommentForm) Normalize() { f.Text = strings.TrimSpace(f.Text) }

func (f *editCommentForm) Messages() map[string]string {
	return map[string]string{
		"comment_text": "Comments must be at least 2 characters long.",
	}
}

type deleteCommentForm struct {
	CommentID   int64 `form:"comment_id"`
	InventoryID int64 `form:"inv_id"`
}

type classificationForm struct {
	Name string `form:"classification_name" validate:"required,alphanum,max=30"`
}

func (f *classificationForm) Normalize() { f.Name = strings.TrimSpace(f.Name) }

func (f *classificationForm) Messages() map[string]string {
	return map[string]string{
		"classification_name": "Provide a classification name with letters and digits only; no spaces or special characters.",
	}
}

// vehicleForm keeps numeric inputs as strings so a typo becomes a field
// error on the re-rendered form rather than a bind failure.
type vehicleForm struct {
	InventoryID      int64  `form:"inv_id"`
	ClassificationID string `form:"classification_id" validate:"required,number"`
	Make             string `form:"inv_make" validate:"required,min=2,max=50"`
	Model            string `form:"inv_model" validate:"required,min=2,max=50"`
	Year             string `form:"inv_year" validate:"required,modelyear"`
	Description      string `form:"inv_description" validate:"required,min=5"`
	Image            string `form:"inv_image" validate:"required,max=255"`
	Thumbnail        string `form:"inv_thumbnail" validate:"required,max=255"`
	Price            string `form:"inv_price" validate:"required,nonnegative"`
	Miles            string `form:"inv_miles" validate:"required,number,max=9"`
	Color            string `form:"inv_color" validate:"required,min=2,max=30"`
}

func (f *vehicleForm) Normalize() {
	for _, p := range []*string{
		&f.ClassificationID, &f.Make, &f.Model, &f.Year, &f.Description,
		&f.Image, &f.Thumbnail, &f.Price, &f.Miles, &f.Color,
	} {
		*p = strings.TrimSpace(*p)
	}
}

func (f *vehicleForm) Messages() map[string]string {
	return map[string]string{
		"classification_id": "Please choose a classification.",
		"inv_make":          "Please provide a make of at least 2 characters.",
		"inv_model":         "Please provide a model of at least 2 characters.",
		"inv_description":   "Please provide a description of at least 5 characters.",
		"inv_image":         "Please provide an image path.",
		"inv_thumbnail":     "Please provide a thumbnail path.",
		"inv_price":         "Please provide a price of zero or more.",
		"inv_miles":         "Please provide the mileage as a whole number.",
		"inv_color":         "Please provide a color of at least 2 characters.",
	}
}

// vehicle converts a validated form.
func (f *vehicleForm) vehicle() domain.Vehicle {
	classificationID, _ := strconv.ParseInt(f.ClassificationID, 10, 64)
	year, _ := strconv.Atoi(f.Year)
	price, _ := strconv.ParseFloat(f.Price, 64)
	miles, _ := strconv.Atoi(f.Miles)
	return domain.Vehicle{
		ID:               f.InventoryID,
		Make:             f.Make,
		Model:            f.Model,
		Year:             year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            price,
		Miles:            miles,
		Color:            f.Color,
		ClassificationID: classificationID,
	}
}

func vehicleFormOf(v *domain.Vehicle) *vehicleForm {
	return &vehicleForm{
		InventoryID:      v.ID,
		ClassificationID: strconv.FormatInt(v.ClassificationID, 10),
		Make:             v.Make,
		Model:            v.Model,
		Year:             strconv.Itoa(v.Year),
		Description:      v.Description,
		Image:            v.Image,
		Thumbnail:        v.Thumbnail,
		Price:            strconv.FormatFloat(v.Price, 'f', -1, 64),
		Miles:            strconv.Itoa(v.Miles),
		Color:            v.Color,
	}
}
