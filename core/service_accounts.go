package core

import (
	"context"
	"fmt"
	"time"
)

func (s *Service) AddAccount(ctx context.Context, req AddAccountRequest) (err error) {
	startedAt := time.Now().UTC()
	ref := AccountRef{Owner: req.Owner, Name: req.Name}
	fields := accountFields(ref)
	defer func() {
		s.observeOperation(ctx, startedAt, "add_account", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = ref.Validate(); err != nil {
		return err
	}
	if err = validateLength("extra info", req.ExtraInfo); err != nil {
		return err
	}

	unlock, err := s.lockAccount(ctx, ref)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	created, err := s.accountStore.Create(ctx, NewAccount(req.Owner, req.Name, req.ExtraInfo))
	unlock()
	if err != nil {
		err = s.mapError(err)
		return err
	}
	s.publishChange("add_account", created)
	return nil
}

// DeleteAccount removes the account and everything attached to it. A second
// delete reports NotFound.
func (s *Service) DeleteAccount(ctx context.Context, ref AccountRef) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(ref)
	defer func() {
		s.observeOperation(ctx, startedAt, "delete_account", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = ref.Validate(); err != nil {
		return err
	}

	unlock, err := s.lockAccount(ctx, ref)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	current, err := s.accountStore.Get(ctx, ref)
	if err != nil {
		unlock()
		err = s.mapError(err)
		return err
	}
	err = s.accountStore.Delete(ctx, ref)
	unlock()
	if err != nil {
		err = s.mapError(err)
		return err
	}
	s.publishChange("delete_account", current)
	return nil
}

func (s *Service) GetAccountExtraInfo(ctx context.Context, ref AccountRef) (extraInfo string, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(ref)
	defer func() {
		s.observeOperation(ctx, startedAt, "get_account_extra_info", err, fields)
	}()

	account, err := s.loadAccount(ctx, ref)
	if err != nil {
		return "", err
	}
	return account.ExtraInfo, nil
}

func (s *Service) SetAccountExtraInfo(ctx context.Context, req SetExtraInfoRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	defer func() {
		s.observeOperation(ctx, startedAt, "set_account_extra_info", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = req.Account.Validate(); err != nil {
		return err
	}
	if err = validateLength("extra info", req.ExtraInfo); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "set_account_extra_info", req.Account, func(account *Account) error {
		account.ExtraInfo = req.ExtraInfo
		return nil
	})
	err = s.mapError(err)
	return err
}

func (s *Service) SetAccountCredential(ctx context.Context, req SetCredentialRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["credential_type"] = req.CredentialType
	defer func() {
		s.observeOperation(ctx, startedAt, "set_account_credential", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = req.Account.Validate(); err != nil {
		return err
	}
	if err = validateRequired("credential type", req.CredentialType); err != nil {
		return err
	}
	if err = validateLength("credential", req.Credential); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "set_account_credential", req.Account, func(account *Account) error {
		if account.Credentials == nil {
			account.Credentials = map[string]string{}
		}
		account.Credentials[req.CredentialType] = req.Credential
		return nil
	})
	err = s.mapError(err)
	return err
}

func (s *Service) GetAccountCredential(ctx context.Context, req GetCredentialRequest) (credential string, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	fields["credential_type"] = req.CredentialType
	defer func() {
		s.observeOperation(ctx, startedAt, "get_account_credential", err, fields)
	}()

	if err = validateRequired("credential type", req.CredentialType); err != nil {
		return "", err
	}
	account, err := s.loadAccount(ctx, req.Account)
	if err != nil {
		return "", err
	}
	credential, ok := account.Credentials[req.CredentialType]
	if !ok {
		err = notFoundError(fmt.Sprintf("core: credential %q not found", req.CredentialType))
		return "", err
	}
	return credential, nil
}

func (s *Service) SetAssociatedData(ctx context.Context, req SetAssociatedDataRequest) (err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	defer func() {
		s.observeOperation(ctx, startedAt, "set_associated_data", err, fields)
	}()

	if err = s.ready(); err != nil {
		err = s.mapError(err)
		return err
	}
	if err = req.Account.Validate(); err != nil {
		return err
	}
	if err = validateRequired("associated data key", req.Key); err != nil {
		return err
	}
	if err = validateLength("associated data value", req.Value); err != nil {
		return err
	}
	err = s.mutateAccount(ctx, "set_associated_data", req.Account, func(account *Account) error {
		if account.AssociatedData == nil {
			account.AssociatedData = map[string]string{}
		}
		account.AssociatedData[req.Key] = req.Value
		return nil
	})
	err = s.mapError(err)
	return err
}

func (s *Service) GetAssociatedData(ctx context.Context, req GetAssociatedDataRequest) (value string, err error) {
	startedAt := time.Now().UTC()
	fields := accountFields(req.Account)
	defer func() {
		s.observeOperation(ctx, startedAt, "get_associated_data", err, fields)
	}()

	if err = validateRequired("associated data key", req.Key); err != nil {
		return "", err
	}
	account, err := s.loadAccount(ctx, req.Account)
	if err != nil {
		return "", err
	}
	value, ok := account.AssociatedData[req.Key]
	if !ok {
		err = notFoundError(fmt.Sprintf("core: associated data %q not found", req.Key))
		return "", err
	}
	return value, nil
}

func (s *Service) loadAccount(ctx context.Context, ref AccountRef) (Account, error) {
	if err := s.ready(); err != nil {
		return Account{}, s.mapError(err)
	}
	if err := ref.Validate(); err != nil {
		return Account{}, err
	}
	account, err := s.accountStore.Get(ctx, ref)
	if err != nil {
		return Account{}, s.mapError(err)
	}
	return account, nil
}
