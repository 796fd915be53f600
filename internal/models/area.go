package models

// Area is a classification tag shared by companies (practice areas) and
// students (interest areas) and required on every job offer. Nome is unique.
type Area struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}
