package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

func (s *sqliteStorage) GetProfile(ctx context.Context, userID int64) (storage.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			default_phone_number,
			default_country,
			default_postcode,
			default_town_or_city,
			default_street_address1,
			default_street_address2,
			default_county
		FROM user_profiles
		WHERE user_id = ?
	`, userID)

	var phone, country, postcode, town, street1, street2, county sql.NullString

	err := row.Scan(&phone, &country, &postcode, &town, &street1, &street2, &county)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	return storage.NewProfile(userID, storage.ProfileFields{
		PhoneNumber:    fromNullString(phone),
		Country:        fromNullString(country),
		Postcode:       fromNullString(postcode),
		TownOrCity:     fromNullString(town),
		StreetAddress1: fromNullString(street1),
		StreetAddress2: fromNullString(street2),
		County:         fromNullString(county),
	}), nil
}

func (s *sqliteStorage) UpdateProfile(ctx context.Context, profile storage.Profile) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE user_profiles
		SET
			default_phone_number = ?,
			default_country = ?,
			default_postcode = ?,
			default_town_or_city = ?,
			default_street_address1 = ?,
			default_street_address2 = ?,
			default_county = ?
		WHERE user_id = ?
	`,
		toNullString(profile.PhoneNumber()),
		toNullString(profile.Country()),
		toNullString(profile.Postcode()),
		toNullString(profile.TownOrCity()),
		toNullString(profile.StreetAddress1()),
		toNullString(profile.StreetAddress2()),
		toNullString(profile.County()),
		profile.UserID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return expectAffected(result)
}

func fromNullString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

func toNullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
