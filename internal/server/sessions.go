package server

import (
	"errors"
	"net/http"
	"sync"

	"anisbee/internal/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sessionCookieName = "anisbee_session"

var errNameTaken = errors.New("that name is already in use")

// identity is the resolved anonymous user behind a session cookie.
type identity struct {
	UserID      uint
	AnonName    string
	AvatarColor string
	IsAdmin     bool
}

// sessionStore maps session cookies to anonymous identities. With a
// database it is backed by the sessions and users tables; without one it
// keeps everything in memory, which is what the tests run against.
type sessionStore struct {
	db         *gorm.DB
	mu         sync.Mutex
	sessions   map[string]uint
	users      map[uint]identity
	nextUserID uint
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{
		db:         conn,
		sessions:   make(map[string]uint),
		users:      make(map[uint]identity),
		nextUserID: 1,
	}
}

func (s *sessionStore) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if s.db != nil {
		_ = s.db.Save(&db.Session{ID: id}).Error
	}
	return id
}

// currentUser resolves the caller's identity. The second result is false
// for sessions that have not claimed an anonymous name yet.
func (s *sessionStore) currentUser(w http.ResponseWriter, r *http.Request) (identity, bool) {
	id := s.ensureSessionID(w, r)
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		userID, ok := s.sessions[id]
		if !ok {
			return identity{}, false
		}
		user, ok := s.users[userID]
		return user, ok
	}
	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil || record.UserID == nil {
		return identity{}, false
	}
	var user db.User
	if err := s.db.First(&user, *record.UserID).Error; err != nil {
		return identity{}, false
	}
	return identity{
		UserID:      user.ID,
		AnonName:    user.AnonName,
		AvatarColor: user.AvatarColor,
		IsAdmin:     user.IsAdmin,
	}, true
}

// claimName binds an anonymous display name to the caller's session,
// creating the user row on first claim and renaming on later ones.
func (s *sessionStore) claimName(w http.ResponseWriter, r *http.Request, name string) (identity, error) {
	id := s.ensureSessionID(w, r)
	if s.db == nil {
		return s.claimNameInMemory(id, name)
	}

	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		record = db.Session{ID: id}
	}
	if record.UserID != nil {
		var user db.User
		if err := s.db.First(&user, *record.UserID).Error; err == nil {
			if user.AnonName != name {
				user.AnonName = name
				if err := s.db.Save(&user).Error; err != nil {
					if isUniqueViolation(err) {
						return identity{}, errNameTaken
					}
					return identity{}, err
				}
			}
			return identity{UserID: user.ID, AnonName: user.AnonName, AvatarColor: user.AvatarColor, IsAdmin: user.IsAdmin}, nil
		}
	}

	user := db.User{
		AnonName:    name,
		AvatarColor: pickAvatarColor(int(s.userCount())),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return identity{}, errNameTaken
		}
		return identity{}, err
	}
	record.UserID = &user.ID
	if err := s.db.Save(&record).Error; err != nil {
		return identity{}, err
	}
	return identity{UserID: user.ID, AnonName: user.AnonName, AvatarColor: user.AvatarColor}, nil
}

func (s *sessionStore) claimNameInMemory(sessionID, name string) (identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for otherID, other := range s.users {
		if other.AnonName == name && s.sessions[sessionID] != otherID {
			return identity{}, errNameTaken
		}
	}
	if userID, ok := s.sessions[sessionID]; ok {
		user := s.users[userID]
		user.AnonName = name
		s.users[userID] = user
		return user, nil
	}
	user := identity{
		UserID:      s.nextUserID,
		AnonName:    name,
		AvatarColor: pickAvatarColor(len(s.users)),
	}
	s.nextUserID++
	s.users[user.UserID] = user
	s.sessions[sessionID] = user.UserID
	return user, nil
}

func (s *sessionStore) userCount() int64 {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return int64(len(s.users))
	}
	var count int64
	_ = s.db.Model(&db.User{}).Count(&count).Error
	return count
}
