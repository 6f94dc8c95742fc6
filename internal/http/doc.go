// Package http provides the HTTP handlers, middleware, and router for the
// event listing API.
//
// The router exposes the following endpoints:
//   - POST /login: checks credentials and sets the signed token in an
//     http-only `jwt` cookie. POST /logout clears the stored token id and the
//     cookie.
//   - GET /api/event, GET /api/event/{id}, GET /api/event/search/{name}:
//     listings for any authenticated principal. POST, PATCH /api/event/{id},
//     DELETE /api/event/{id} require the editor or admin role. PATCH bodies
//     name only the fields to change; omitted fields are left untouched.
//   - GET /api/category (editor/admin), GET /api/category/{id}, and the
//     admin-only POST, PATCH /api/category/{id}, DELETE /api/category/{id}.
//   - POST /api/user registers an account without authentication. The
//     remaining /api/user routes manage the caller's own account (email,
//     pass, name, role, permissions, delete) or, for administrators, other
//     accounts (GET /api/user, PATCH /api/user/role, DELETE
//     /api/user/admin/{id}).
//
// Every route passes through a per-IP rate limiter; the /login and /api/user
// routes carry a second, tighter budget. Request/response DTOs live alongside
// their handlers.
package http
