package persist

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/nacl/secretbox"
	_ "modernc.org/sqlite"

	"delice/internal/domain"
)

// Store keeps the whitelisted state that survives restarts: the auth
// session (tokens sealed at rest), the user profile and the settings
// snapshot. Cart, menu cache and orders are deliberately never written
// here; they are rebuilt every run.
type Store struct {
	db     *sqlx.DB
	key    [32]byte
	sealed bool
}

func Open(dsn, sealKey string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if sealKey != "" {
		s.key = sha256.Sum256([]byte(sealKey))
		s.sealed = true
	} else {
		log.Println("[persist] no seal key configured; tokens stored unsealed")
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS session(
  id TEXT PRIMARY KEY,
  access_token TEXT NOT NULL,
  refresh_token TEXT NOT NULL,
  email TEXT NOT NULL,
  role TEXT NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings(
  id TEXT PRIMARY KEY,
  restaurant_name TEXT,
  phone TEXT,
  email TEXT,
  address TEXT,
  weekday_hours TEXT,
  weekend_hours TEXT,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(schema)
	return err
}

const singleton = "singleton"

// seal encrypts a token with a random nonce prefix, base64 encoded.
func (s *Store) seal(plain string) (string, error) {
	if !s.sealed {
		return plain, nil
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *Store) unseal(stored string) (string, error) {
	if !s.sealed {
		return stored, nil
	}
	box, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", err
	}
	if len(box) < 24 {
		return "", errors.New("sealed token too short")
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", errors.New("sealed token did not open")
	}
	return string(plain), nil
}

func (s *Store) SaveSession(sess domain.Session) error {
	at, err := s.seal(sess.AccessToken)
	if err != nil {
		return err
	}
	rt, err := s.seal(sess.RefreshToken)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
	  INSERT INTO session(id, access_token, refresh_token, email, role, updated_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET
	    access_token=excluded.access_token,
	    refresh_token=excluded.refresh_token,
	    email=excluded.email,
	    role=excluded.role,
	    updated_at=CURRENT_TIMESTAMP
	`, singleton, at, rt, sess.User.Email, sess.User.Role)
	return err
}

// LoadSession restores the persisted session. A missing row or an
// unopenable seal (key changed) both come back as not-found.
func (s *Store) LoadSession() (domain.Session, bool, error) {
	var row struct {
		AccessToken  string `db:"access_token"`
		RefreshToken string `db:"refresh_token"`
		Email        string `db:"email"`
		Role         string `db:"role"`
	}
	err := s.db.Get(&row, `SELECT access_token, refresh_token, email, role FROM session WHERE id = ?`, singleton)
	if err == sql.ErrNoRows {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	at, err := s.unseal(row.AccessToken)
	if err != nil {
		return domain.Session{}, false, nil
	}
	rt, err := s.unseal(row.RefreshToken)
	if err != nil {
		return domain.Session{}, false, nil
	}
	return domain.Session{
		AccessToken:  at,
		RefreshToken: rt,
		User:         domain.User{Email: row.Email, Role: row.Role},
	}, true, nil
}

func (s *Store) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = ?`, singleton)
	return err
}

func (s *Store) SaveSettings(v domain.Settings) error {
	_, err := s.db.Exec(`
	  INSERT INTO settings(id, restaurant_name, phone, email, address, weekday_hours, weekend_hours, updated_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET
	    restaurant_name=excluded.restaurant_name,
	    phone=excluded.phone,
	    email=excluded.email,
	    address=excluded.address,
	    weekday_hours=excluded.weekday_hours,
	    weekend_hours=excluded.weekend_hours,
	    updated_at=CURRENT_TIMESTAMP
	`, singleton, v.RestaurantName, v.Phone, v.Email, v.Address, v.WeekdayHours, v.WeekendHours)
	return err
}

func (s *Store) LoadSettings() (domain.Settings, bool, error) {
	var row struct {
		RestaurantName string `db:"restaurant_name"`
		Phone          string `db:"phone"`
		Email          string `db:"email"`
		Address        string `db:"address"`
		WeekdayHours   string `db:"weekday_hours"`
		WeekendHours   string `db:"weekend_hours"`
	}
	err := s.db.Get(&row, `
	  SELECT COALESCE(restaurant_name,'') AS restaurant_name,
	         COALESCE(phone,'') AS phone,
	         COALESCE(email,'') AS email,
	         COALESCE(address,'') AS address,
	         COALESCE(weekday_hours,'') AS weekday_hours,
	         COALESCE(weekend_hours,'') AS weekend_hours
	  FROM settings WHERE id = ?`, singleton)
	if err == sql.ErrNoRows {
		return domain.Settings{}, false, nil
	}
	if err != nil {
		return domain.Settings{}, false, err
	}
	return domain.Settings{
		RestaurantName: row.RestaurantName,
		Phone:          row.Phone,
		Email:          row.Email,
		Address:        row.Address,
		WeekdayHours:   row.WeekdayHours,
		WeekendHours:   row.WeekendHours,
	}, true, nil
}
