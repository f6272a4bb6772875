// Package session implementa a sessão de conversa do usuário: um cookie
// assinado identifica a sessão e o histórico vive em memória no servidor.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"

	"github.com/dataconversa/data-analyst-api/internal/domain"
)

const (
	CookieName = "session"

	cookieMaxAge = 24 * time.Hour

	// Sessões sem atividade além da validade do cookie são descartadas;
	// sem isso o mapa cresceria um registro por visitante, para sempre.
	sessionTTL    = cookieMaxAge
	sweepInterval = time.Hour
)

type entry struct {
	history  domain.History
	lastSeen time.Time
}

// Store guarda o histórico de conversa por sessão. O cookie carrega apenas
// o identificador, assinado com HS256 para impedir forja de sessão.
type Store struct {
	secret []byte

	mu        sync.Mutex
	sessions  map[string]*entry
	lastSweep time.Time
}

func NewStore(secret string) *Store {
	return &Store{
		secret:    []byte(secret),
		sessions:  make(map[string]*entry),
		lastSweep: time.Now(),
	}
}

// Resolve extrai o identificador de sessão do cookie da requisição. Se o
// cookie estiver ausente ou inválido, cria uma sessão nova e grava o cookie
// na resposta.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) string {
	s.sweep(time.Now())

	if cookie, err := r.Cookie(CookieName); err == nil {
		if id, ok := s.verify(cookie.Value); ok {
			return id
		}
		logrus.Debug("Cookie de sessão inválido; criando nova sessão")
	}

	id, err := gonanoid.New()
	if err != nil {
		// Fallback improvável; mantém a requisição funcionando sem histórico
		// compartilhado entre chamadas.
		logrus.WithError(err).Error("Erro ao gerar identificador de sessão")
		return "anonymous"
	}

	s.issue(w, id)

	return id
}

// History devolve o histórico de conversa da sessão.
func (s *Store) History(id string) domain.History {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return domain.History{}
	}
	e.lastSeen = time.Now()
	return e.history
}

// SetHistory substitui o histórico de conversa da sessão.
func (s *Store) SetHistory(id string, history domain.History) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &entry{history: history, lastSeen: time.Now()}
}

// sweep descarta sessões inativas há mais que o TTL. Roda no caminho de
// requisição, no máximo uma vez por intervalo, para dispensar goroutine
// própria.
func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now

	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > sessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) issue(w http.ResponseWriter, id string) {
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(cookieMaxAge)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		logrus.WithError(err).Error("Erro ao assinar cookie de sessão")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Store) verify(value string) (string, bool) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}
