package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/accounts"
)

// Profile prints the signed-in account.
func (a *App) Profile(_ context.Context) error {
	u := a.session.State().CurrentUser
	if u == nil {
		return nil
	}
	a.println("Name: ", u.Name)
	a.println("Email:", u.Email)
	return nil
}

func (a *App) ChangeName(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "New full name", a.out)
	if err != nil {
		return err
	}
	return a.update(ctx, "Name", accounts.Patch{Name: &name})
}

func (a *App) ChangeEmail(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "New email", a.out)
	if err != nil {
		return err
	}
	return a.update(ctx, "Email", accounts.Patch{Email: &email})
}

func (a *App) ChangePassword(ctx context.Context) error {
	password, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	a.printStrength(password)
	return a.update(ctx, "Password", accounts.Patch{Password: &password})
}

func (a *App) update(ctx context.Context, field string, patch accounts.Patch) error {
	err := a.call(ctx, func(ctx context.Context) error {
		_, err := a.session.UpdateProfile(ctx, patch)
		return err
	})
	if err != nil {
		a.report(err)
		return err
	}
	a.println(field + " updated successfully.")
	return nil
}

// Delete removes the account after an explicit confirmation.
func (a *App) Delete(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Delete account permanently? (y/N)", a.out)
	if err != nil {
		return err
	}
	if ans := strings.ToLower(answer); ans != "y" && ans != "yes" {
		a.println("Cancelled.")
		return nil
	}

	if err := a.call(ctx, a.session.DeleteAccount); err != nil {
		a.report(err)
		return err
	}
	a.println("Account deleted.")
	return nil
}

// Status prints the session state and the number of registered accounts.
func (a *App) Status(_ context.Context) error {
	st := a.session.State()
	a.println("initialized:", st.Initialized)
	a.println("state:      ", st.Status())
	a.println("accounts:   ", len(a.session.Users()))
	return nil
}
