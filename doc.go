// Package gymauth is the client-side session layer for the gym management
// application: token persistence, expiry inspection, an API client with
// refresh-on-401 semantics, and role-gated route guarding.
//
// Token lifecycle:
//   - TokenStore persists the access/refresh pair as an atomic unit; the pair
//     is always set or cleared together. MemoryTokenStore keeps it in-process,
//     BunTokenStore persists it through Bun so sessions survive restarts.
//   - TokenInspector decodes the access token's expiry claim without verifying
//     the signature (the backend is the signing authority). Malformed tokens
//     are reported as expired, never as valid.
//
// Session authority:
//   - SessionManager is the single owner of the derived authenticated flag.
//     It combines the stored token, the inspector, and the cached user so
//     consumers ask one question (IsAuthenticated) instead of reconciling two
//     sources of truth. Rehydrate restores the user from /auth/me before any
//     guard decision is made.
//
// Route guarding:
//   - RouteGuard composes middleware/sessionware into redirect-to-login and
//     redirect-to-unauthorized outcomes, re-checked on every guarded
//     navigation. RegisterGuardedRoutes wires the application's route surface.
package gymauth
