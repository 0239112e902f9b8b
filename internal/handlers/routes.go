package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Patterns
// use method matching, and literal segments such as /films/popular take
// precedence over the /films/{id} wildcard.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	films := FilmHandler{Films: deps.Films, Limiter: deps.Limiter}
	users := UserHandler{Users: deps.Users, Recommendations: deps.Recommendations, Limiter: deps.Limiter}
	catalog := CatalogHandler{Catalog: deps.Catalog}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /films", films.Create)
	mux.HandleFunc("PUT /films", films.Update)
	mux.HandleFunc("GET /films", films.List)
	mux.HandleFunc("GET /films/popular", films.Popular)
	mux.HandleFunc("GET /films/common", films.Common)
	mux.HandleFunc("GET /films/search", films.Search)
	mux.HandleFunc("GET /films/director/{directorId}", films.ByDirector)
	mux.HandleFunc("GET /films/{id}", films.Get)
	mux.HandleFunc("DELETE /films/{id}", films.Delete)
	mux.HandleFunc("PUT /films/{id}/like/{userId}", films.AddLike)
	mux.HandleFunc("DELETE /films/{id}/like/{userId}", films.DeleteLike)
	mux.HandleFunc("POST /films/{id}/poster", films.UploadPoster)

	mux.HandleFunc("POST /users", users.Create)
	mux.HandleFunc("PUT /users", users.Update)
	mux.HandleFunc("GET /users", users.List)
	mux.HandleFunc("GET /users/{id}", users.Get)
	mux.HandleFunc("DELETE /users/{id}", users.Delete)
	mux.HandleFunc("PUT /users/{id}/friends/{friendId}", users.AddFriend)
	mux.HandleFunc("DELETE /users/{id}/friends/{friendId}", users.DeleteFriend)
	mux.HandleFunc("GET /users/{id}/friends", users.Friends)
	mux.HandleFunc("GET /users/{id}/friends/common/{otherId}", users.CommonFriends)
	mux.HandleFunc("GET /users/{id}/recommendations", users.Recommend)
	mux.HandleFunc("GET /users/{id}/feed", users.Feed)

	mux.HandleFunc("GET /genres", catalog.Genres)
	mux.HandleFunc("GET /genres/{id}", catalog.Genre)
	mux.HandleFunc("GET /mpa", catalog.Mpas)
	mux.HandleFunc("GET /mpa/{id}", catalog.Mpa)
	mux.HandleFunc("GET /directors", catalog.Directors)
	mux.HandleFunc("GET /directors/{id}", catalog.Director)
	mux.HandleFunc("POST /directors", catalog.CreateDirector)
	mux.HandleFunc("PUT /directors", catalog.UpdateDirector)
	mux.HandleFunc("DELETE /directors/{id}", catalog.DeleteDirector)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Films           FilmService
	Users           UserService
	Catalog         CatalogService
	Recommendations Recommender
	Limiter         RateLimiter
}
