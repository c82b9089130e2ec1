package postgres

const (
	accountColumns = `account_id, account_firstname, account_lastname, account_email, account_password, account_type`

	insertAccount = `
		INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	findAccountByEmail = `SELECT ` + accountColumns + ` FROM account WHERE account_email = $1`
	findAccountByID    = `SELECT ` + accountColumns + ` FROM account WHERE account_id = $1`

	updateAccountProfile = `
		UPDATE account SET account_firstname = $1, account_lastname = $2, account_email = $3
		WHERE account_id = $4`

	updateAccountCredential = `UPDATE account SET account_password = $1 WHERE account_id = $2`

	accountEmailExists = `SELECT EXISTS (SELECT 1 FROM account WHERE account_email = $1)`
)

const (
	commentSelect = `
		SELECT c.comment_id, c.account_id, c.inv_id, c.comment_text, c.created_at,
		       a.account_firstname || ' ' || a.account_lastname,
		       i.inv_make || ' ' || i.inv_model
		FROM comment c
		JOIN account a ON a.account_id = c.account_id
		JOIN inventory i ON i.inv_id = c.inv_id`

	insertComment = `
		INSERT INTO comment (account_id, inv_id, comment_text)
		VALUES ($1, $2, $3)
		RETURNING comment_id, created_at`

	findCommentByID = `SELECT comment_id, account_id, inv_id, comment_text, created_at FROM comment WHERE comment_id = $1`

	updateComment = `UPDATE comment SET comment_text = $1 WHERE comment_id = $2 AND account_id = $3`
	deleteComment = `DELETE FROM comment WHERE comment_id = $1 AND account_id = $2`

	listCommentsByInventory = commentSelect + ` WHERE c.inv_id = $1 ORDER BY c.created_at, c.comment_id`
	listCommentsByAccount   = commentSelect + ` WHERE c.account_id = $1 ORDER BY c.created_at DESC, c.comment_id DESC`
	listRecentComments      = commentSelect + ` ORDER BY c.created_at DESC, c.comment_id DESC LIMIT $1`
)

const (
	listClassifications    = `SELECT classification_id, classification_name FROM classification ORDER BY classification_name`
	findClassificationByID = `SELECT classification_id, classification_name FROM classification WHERE classification_id = $1`
	insertClassification   = `INSERT INTO classification (classification_name) VALUES ($1) RETURNING classification_id`

	vehicleColumns = `i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description, i.inv_image,
		i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color, i.classification_id, c.classification_name`

	vehicleSelect = `SELECT ` + vehicleColumns + `
		FROM inventory i
		JOIN classification c ON c.classification_id = i.classification_id`

	insertVehicle = `
		INSERT INTO inventory (inv_make, inv_model, inv_year, inv_description, inv_image,
			inv_thumbnail, inv_price, inv_miles, inv_color, classification_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING inv_id`

	findVehicleByID              = vehicleSelect + ` WHERE i.inv_id = $1`
	listVehiclesByClassification = vehicleSelect + ` WHERE i.classification_id = $1 ORDER BY i.inv_make, i.inv_model`

	updateVehicle = `
		UPDATE inventory SET inv_make = $1, inv_model = $2, inv_year = $3, inv_description = $4,
			inv_image = $5, inv_thumbnail = $6, inv_price = $7, inv_miles = $8, inv_color = $9,
			classification_id = $10
		WHERE inv_id = $11`

	deleteVehicleComments = `DELETE FROM comment WHERE inv_id = $1`
	deleteVehicle         = `DELETE FROM inventory WHERE inv_id = $1`
)

const insertAuthEvent = `
	INSERT INTO auth_event (kind, account_id, email, remote_ip, occurred_at)
	VALUES ($1, $2, $3, $4, $5)`
