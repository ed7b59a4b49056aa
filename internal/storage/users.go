package storage

import "time"

type User interface {
	ID() int64
	Username() string
	PasswordHash() string
	CreatedAt() time.Time
}

type user struct {
	id           int64
	username     string
	passwordHash string
	createdAt    time.Time
}

func NewUser(id int64, username, passwordHash string, createdAt time.Time) User {
	return user{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

func (u user) ID() int64 {
	return u.id
}

func (u user) Username() string {
	return u.username
}

func (u user) PasswordHash() string {
	return u.passwordHash
}

func (u user) CreatedAt() time.Time {
	return u.createdAt
}

type Session interface {
	ID() string
	UserID() int64
	ExpiresAt() time.Time
	CreatedAt() time.Time
}

type session struct {
	id        string
	userID    int64
	expiresAt time.Time
	createdAt time.Time
}

func NewSession(id string, userID int64, expiresAt, createdAt time.Time) Session {
	return session{
		id:        id,
		userID:    userID,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

func (s session) ID() string {
	return s.id
}

func (s session) UserID() int64 {
	return s.userID
}

func (s session) ExpiresAt() time.Time {
	return s.expiresAt
}

func (s session) CreatedAt() time.Time {
	return s.createdAt
}

// Profile holds the default delivery information of a user.
// Every field apart from the user is optional.
type Profile interface {
	UserID() int64
	PhoneNumber() *string
	Country() *string
	Postcode() *string
	TownOrCity() *string
	StreetAddress1() *string
	StreetAddress2() *string
	County() *string
}

// ProfileFields is the mutable part of a profile.
type ProfileFields struct {
	PhoneNumber    *string
	Country        *string
	Postcode       *string
	TownOrCity     *string
	StreetAddress1 *string
	StreetAddress2 *string
	County         *string
}

type profile struct {
	userID int64
	fields ProfileFields
}

func NewProfile(userID int64, fields ProfileFields) Profile {
	return profile{
		userID: userID,
		fields: fields,
	}
}

func (p profile) UserID() int64 {
	return p.userID
}

func (p profile) PhoneNumber() *string {
	return p.fields.PhoneNumber
}

func (p profile) Country() *string {
	return p.fields.Country
}

func (p profile) Postcode() *string {
	return p.fields.Postcode
}

func (p profile) TownOrCity() *string {
	return p.fields.TownOrCity
}

func (p profile) StreetAddress1() *string {
	return p.fields.StreetAddress1
}

func (p profile) StreetAddress2() *string {
	return p.fields.StreetAddress2
}

func (p profile) County() *string {
	return p.fields.County
}
