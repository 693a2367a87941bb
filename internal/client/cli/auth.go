package cli

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/dmitrijs2005/accountkeeper/internal/client/services"
	"github.com/dmitrijs2005/accountkeeper/internal/client/validation"
)

// Register prompts for name, email and a confirmed password and creates the
// account. Every failing field is reported at once.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}
	a.printStrength(password)
	confirm, err := a.readSecret("Confirm password")
	if err != nil {
		return err
	}

	var errs validation.ValidationErrors
	if err := validation.Registration(name, email, password); err != nil {
		errors.As(err, &errs)
	}
	switch {
	case confirm == "":
		errs = append(errs, &validation.ValidationError{Field: validation.FieldConfirmPassword, Message: "Confirm your password"})
	case confirm != password:
		errs = append(errs, &validation.ValidationError{Field: validation.FieldConfirmPassword, Message: "Passwords do not match"})
	}
	if err := errs.Err(); err != nil {
		a.report(err)
		return err
	}

	in := services.RegisterInput{Name: name, Email: email, Password: password}
	err = a.call(ctx, func(ctx context.Context) error {
		_, err := a.session.Register(ctx, in)
		return err
	})
	if err != nil {
		a.report(err)
		return err
	}
	return nil
}

// Login prompts for credentials and signs in. The form is checked before
// the session is asked.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	var errs validation.ValidationErrors
	if !validation.IsEmail(email) {
		errs = append(errs, &validation.ValidationError{Field: validation.FieldEmail, Message: "Invalid email"})
	}
	if utf8.RuneCountInString(password) < validation.MinPasswordLength {
		errs = append(errs, &validation.ValidationError{Field: validation.FieldPassword, Message: "Incorrect password"})
	}
	if err := errs.Err(); err != nil {
		a.report(err)
		return err
	}

	err = a.call(ctx, func(ctx context.Context) error {
		_, err := a.session.Login(ctx, services.Credentials{Email: email, Password: password})
		return err
	})
	if err != nil {
		a.report(err)
		return err
	}
	return nil
}

// Forgot runs the two-step password reset: find the account, then set a
// new password.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email of the account", a.out)
	if err != nil {
		return err
	}

	var reset *services.PasswordReset
	err = a.call(ctx, func(ctx context.Context) error {
		r, err := a.session.BeginPasswordReset(ctx, email)
		reset = r
		return err
	})
	if err != nil {
		a.report(err)
		return err
	}

	password, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	a.printStrength(password)

	if err := a.call(ctx, func(ctx context.Context) error { return reset.Complete(ctx, password) }); err != nil {
		a.report(err)
		return err
	}
	a.println("Password has been reset. You can now log in.")
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.call(ctx, a.session.Logout); err != nil {
		a.report(err)
		return err
	}
	return nil
}
