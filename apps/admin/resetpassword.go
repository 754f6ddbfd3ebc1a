package main

import (
	"context"
	"time"

	"github.com/shulehub/shule/core"
)

func (cli *commandLine) resetPassword(schoolID, email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	m, err := cli.staffRepo.GetMemberByEmail(ctx, schoolID, email)
	if err != nil {
		return err
	}
	if err := m.SetPassword(pwd); err != nil {
		return err
	}
	m.UpdatedAt = time.Now().UTC()
	if _, err := cli.staffRepo.UpdateMember(ctx, m); err != nil {
		return err
	}
	return nil
}
