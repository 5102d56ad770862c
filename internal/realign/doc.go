// Package realign computes content realignment plans. Given a set of
// keyword priorities with saturation targets, it fetches the future posting
// snapshot once, classifies it, reserves posts that already satisfy each
// priority, schedules draft content to cover the remaining shortfall, and
// proposes cancellations of unmatched posts when a platform's calendar has
// no free slots left. Plans are proposals only; applying them is the
// caller's job.
package realign
