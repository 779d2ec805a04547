// Package errors provides the structured error type shared by every layer of
// the world server.
//
// Core failures (unknown ids, range checks, already collected treasure) are
// values carrying a Code, never panics:
//
//	err := errors.NotFoundf("treasure %s not found", id)
//	err := errors.OutOfRangef("target is %.1f units away", dist)
//
// Layers wrap with context while keeping the code:
//
//	if err := repo.RecordScore(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to record score")
//	}
//
// and check with the Is* helpers or GetCode. Handlers convert to transport
// form with ToGRPCError or Code.HTTPStatus.
//
// Config structs validate through ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidatePositive("view_radius", cfg.ViewRadius, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
